package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var ErrUnknownDriver = errors.New("unknown sheets driver")

// Source fetches the values of one column.
type Source interface {
	Column(ctx context.Context, loc Locator) ([][]string, error)
	Close() error
}

// Config selects and configures a driver.
//
// Driver values:
//   - "google": CredentialsFile + SpreadsheetID
//   - "xlsx":   WorkbookPath
type Config struct {
	Driver          string
	CredentialsFile string
	SpreadsheetID   string
	WorkbookPath    string
	Timeout         time.Duration
}

// Locator identifies a single column of a named sheet ("MAY - 2025!F:F").
type Locator struct {
	Sheet  string
	Column string
}

func (l Locator) String() string {
	return l.Sheet + "!" + l.Column + ":" + l.Column
}

// ColumnIndex returns the 1-based column number.
func (l Locator) ColumnIndex() (int, error) {
	return excelize.ColumnNameToNumber(l.Column)
}

// ParseLocator parses "Sheet!C:C" (or "Sheet!C").
func ParseLocator(raw string) (Locator, error) {
	s := strings.TrimSpace(raw)
	i := strings.LastIndex(s, "!")
	if i <= 0 || i == len(s)-1 {
		return Locator{}, fmt.Errorf("invalid locator %q (want Sheet!C:C)", raw)
	}
	sheet := strings.Trim(s[:i], "'")
	rng := strings.ToUpper(strings.TrimSpace(s[i+1:]))
	col := rng
	if a, b, ok := strings.Cut(rng, ":"); ok {
		if a != b {
			return Locator{}, fmt.Errorf("invalid locator %q: range must cover a single column", raw)
		}
		col = a
	}
	loc := Locator{Sheet: sheet, Column: col}
	if _, err := loc.ColumnIndex(); err != nil {
		return Locator{}, fmt.Errorf("invalid locator %q: %w", raw, err)
	}
	return loc, nil
}

// Locators builds one locator per column on the given sheet. An entry that
// already names its sheet ("MAY - 2025!F:F") is used as is.
func Locators(sheet string, columns []string) ([]Locator, error) {
	out := make([]Locator, 0, len(columns))
	for _, c := range columns {
		if strings.Contains(c, "!") {
			loc, err := ParseLocator(c)
			if err != nil {
				return nil, err
			}
			out = append(out, loc)
			continue
		}
		loc := Locator{Sheet: sheet, Column: strings.ToUpper(strings.TrimSpace(c))}
		if _, err := loc.ColumnIndex(); err != nil {
			return nil, fmt.Errorf("column %q: %w", c, err)
		}
		out = append(out, loc)
	}
	return out, nil
}

// MonthlySheetName derives the sheet name used by the monthly spreadsheet
// layout, e.g. "OCTOBER - 2026".
func MonthlySheetName(t time.Time) string {
	return strings.ToUpper(t.Format("January")) + " - " + t.Format("2006")
}
