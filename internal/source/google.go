package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	logx "duebot/pkg/logx"
)

// googleSource reads column ranges through the Sheets API v4.
type googleSource struct {
	log           logx.Logger
	svc           *sheets.Service
	spreadsheetID string
	timeout       time.Duration
}

func openGoogle(ctx context.Context, cfg Config, log logx.Logger) (Source, error) {
	creds := strings.TrimSpace(cfg.CredentialsFile)
	if creds == "" {
		return nil, errors.New("sheets.credentials_file is required for google driver")
	}
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("sheets.spreadsheet_id is required for google driver")
	}
	if _, err := os.Stat(creds); err != nil {
		return nil, fmt.Errorf("service account credentials: %w", err)
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(creds),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &googleSource{log: log, svc: svc, spreadsheetID: cfg.SpreadsheetID, timeout: timeout}, nil
}

func (s *googleSource) Column(ctx context.Context, loc Locator) ([][]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, loc.String()).Context(cctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", loc, err)
	}
	out := cellsToStrings(resp.Values)
	s.log.Debug("range fetched", logx.String("range", loc.String()), logx.Int("rows", len(out)), logx.Duration("took", time.Since(start)))
	return out, nil
}

func (s *googleSource) Close() error { return nil }

// cellsToStrings converts API cell values (strings, numbers, bools) into text.
func cellsToStrings(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			cells[j] = fmt.Sprint(v)
		}
		out[i] = cells
	}
	return out
}
