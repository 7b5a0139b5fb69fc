package config

import "strings"

// DefaultColumns are the sheet columns read by default:
// assignment, customer name, checked, hand over, due date, handle by.
var DefaultColumns = []string{"A", "B", "F", "G", "I", "L"}

const (
	DriverGoogle = "google"
	DriverXLSX   = "xlsx"
)

type Config struct {
	Telegram  TelegramConfig  `json:"telegram"`
	Sheets    SheetsConfig    `json:"sheets"`
	Directory DirectoryConfig `json:"directory"`
	Delivery  DeliveryConfig  `json:"delivery"`
	Logging   LoggingConfig   `json:"logging"`
}

// TelegramConfig controls the outgoing Bot API client.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
//
// Defaults (when fields are omitted/zero):
//   - rate_per_sec: 25
//   - send_timeout: "15s"
type TelegramConfig struct {
	Token       string `json:"token"`
	RatePerSec  int    `json:"rate_per_sec,omitempty"`
	SendTimeout string `json:"send_timeout,omitempty"`
}

// SheetsConfig selects the tabular data source.
//
// sheet_name is usually left empty so the monthly sheet ("OCTOBER - 2026")
// is picked from the current date.
type SheetsConfig struct {
	Driver          string   `json:"driver,omitempty"`
	CredentialsFile string   `json:"credentials_file,omitempty"`
	SpreadsheetID   string   `json:"spreadsheet_id,omitempty"`
	WorkbookPath    string   `json:"workbook_path,omitempty"`
	SheetName       string   `json:"sheet_name,omitempty"`
	Columns         []string `json:"columns,omitempty"`
	Timeout         string   `json:"timeout,omitempty"`
}

// DriverName returns the normalized driver, defaulting to google.
func (s SheetsConfig) DriverName() string {
	d := strings.ToLower(strings.TrimSpace(s.Driver))
	switch d {
	case "", "gsheets":
		return DriverGoogle
	case "excel":
		return DriverXLSX
	default:
		return d
	}
}

type DirectoryConfig struct {
	Path string `json:"path"`
}

// DeliveryConfig bounds per-message retries.
//
// Defaults:
//   - max_attempts: 5
//   - retry_delay: "5s"
type DeliveryConfig struct {
	MaxAttempts int    `json:"max_attempts,omitempty"`
	RetryDelay  string `json:"retry_delay,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}
