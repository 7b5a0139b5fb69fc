package source

import (
	"context"
	"fmt"
	"strings"

	logx "duebot/pkg/logx"
)

// Open initializes the configured source.
// Credential or workbook problems are returned as errors; callers treat them as fatal.
func Open(ctx context.Context, cfg Config, log logx.Logger) (Source, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "google", "gsheets":
		return openGoogle(ctx, cfg, log)
	case "xlsx", "excel":
		return openWorkbook(cfg, log)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}
