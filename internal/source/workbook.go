package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	logx "duebot/pkg/logx"
)

// workbookSource reads columns from a local .xlsx file.
type workbookSource struct {
	log  logx.Logger
	file *excelize.File
	path string
}

func openWorkbook(cfg Config, log logx.Logger) (Source, error) {
	path := strings.TrimSpace(cfg.WorkbookPath)
	if path == "" {
		return nil, errors.New("sheets.workbook_path is required for xlsx driver")
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &workbookSource{log: log, file: f, path: path}, nil
}

// NewWorkbookSource wraps an already opened workbook.
func NewWorkbookSource(f *excelize.File, log logx.Logger) Source {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &workbookSource{log: log, file: f}
}

func (s *workbookSource) Column(ctx context.Context, loc Locator) ([][]string, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	idx, err := loc.ColumnIndex()
	if err != nil {
		return nil, err
	}
	rows, err := s.file.GetRows(loc.Sheet)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", loc, err)
	}
	out := make([][]string, len(rows))
	last := -1
	for i, row := range rows {
		if idx-1 < len(row) && row[idx-1] != "" {
			out[i] = []string{row[idx-1]}
			last = i
			continue
		}
		out[i] = []string{}
	}
	out = out[:last+1]
	s.log.Debug("range fetched", logx.String("range", loc.String()), logx.Int("rows", len(out)))
	return out, nil
}

func (s *workbookSource) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
