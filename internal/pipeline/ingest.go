package pipeline

import (
	"context"
	"time"

	"duebot/internal/source"
	logx "duebot/pkg/logx"
)

// ColumnSource is the part of source.Source ingestion needs.
type ColumnSource interface {
	Column(ctx context.Context, loc source.Locator) ([][]string, error)
}

// Ingest fetches every locator and zips the columns into raw records.
//
// A failed column is logged and treated as empty. The row count comes from the
// first locator only, so an empty first column yields no records at all.
func Ingest(ctx context.Context, src ColumnSource, locs []source.Locator, log logx.Logger) []RawRecord {
	if log.IsZero() {
		log = logx.Nop()
	}
	if len(locs) == 0 {
		return nil
	}

	columns := make([][][]string, len(locs))
	for i, loc := range locs {
		start := time.Now()
		values, err := src.Column(ctx, loc)
		if err != nil {
			log.Error("failed to fetch range", logx.String("range", loc.String()), logx.Err(err))
			values = nil
		}
		columns[i] = values
		log.Debug("column fetched", logx.String("range", loc.String()), logx.Int("rows", len(values)), logx.Duration("took", time.Since(start)))
	}

	headers := make([]string, len(locs))
	for i, col := range columns {
		headers[i] = CanonicalKey(cell(col, 0))
	}

	rows := 0
	if n := len(columns[0]); n > 0 {
		rows = n - 1
	}

	out := make([]RawRecord, 0, rows)
	for i := 1; i <= rows; i++ {
		rec := RawRecord{Fields: headers, Values: make(map[string]string, len(headers))}
		for idx, col := range columns {
			rec.Values[headers[idx]] = cell(col, i)
		}
		out = append(out, rec)
	}
	log.Info("rows ingested", logx.Int("columns", len(locs)), logx.Int("rows", len(out)), logx.Strs("fields", headers))
	return out
}

// cell returns the first cell of row i, or "" when the row is missing or empty.
func cell(col [][]string, i int) string {
	if i < 0 || i >= len(col) || len(col[i]) == 0 {
		return ""
	}
	return col[i][0]
}
