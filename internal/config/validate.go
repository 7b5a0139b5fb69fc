package config

import (
	"errors"
	"fmt"
	"strings"

	"duebot/internal/source"
)

// Validate rejects configs that cannot produce a run.
// The telegram token is checked by the app, since dry runs do not need one.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	var errs []error

	if c.Telegram.RatePerSec < 0 {
		errs = append(errs, errors.New("telegram.rate_per_sec must be >= 0"))
	}
	if _, err := ParseDurationField("telegram.send_timeout", c.Telegram.SendTimeout); err != nil {
		errs = append(errs, err)
	}

	switch c.Sheets.DriverName() {
	case DriverGoogle:
		if strings.TrimSpace(c.Sheets.CredentialsFile) == "" {
			errs = append(errs, errors.New("sheets.credentials_file is required for the google driver"))
		}
		if strings.TrimSpace(c.Sheets.SpreadsheetID) == "" {
			errs = append(errs, errors.New("sheets.spreadsheet_id is required for the google driver"))
		}
	case DriverXLSX:
		if strings.TrimSpace(c.Sheets.WorkbookPath) == "" {
			errs = append(errs, errors.New("sheets.workbook_path is required for the xlsx driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("sheets.driver: %w: %q", source.ErrUnknownDriver, c.Sheets.Driver))
	}
	if len(c.Sheets.Columns) == 0 {
		errs = append(errs, errors.New("sheets.columns must not be empty"))
	} else if _, err := source.Locators("x", c.Sheets.Columns); err != nil {
		errs = append(errs, fmt.Errorf("sheets.columns: %w", err))
	}
	if _, err := ParseDurationField("sheets.timeout", c.Sheets.Timeout); err != nil {
		errs = append(errs, err)
	}

	if strings.TrimSpace(c.Directory.Path) == "" {
		errs = append(errs, errors.New("directory.path is required"))
	}

	if c.Delivery.MaxAttempts < 0 {
		errs = append(errs, errors.New("delivery.max_attempts must be >= 0"))
	}
	if _, err := ParseDurationField("delivery.retry_delay", c.Delivery.RetryDelay); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
