package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvServiceAccountFile = "SERVICE_ACCOUNT_FILE"
	EnvSpreadsheetID      = "SPREADSHEET_ID"
	EnvTelegramToken      = "TELEGRAM_BOT_TOKEN"
	EnvTelegramIDsFile    = "TELEGRAM_IDS_FILE"
	EnvSheetName          = "SHEET_NAME"
	EnvWorkbookPath       = "WORKBOOK_PATH"
	EnvLogLevel           = "LOG_LEVEL"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Sheets:    SheetsConfig{Driver: DriverGoogle, Columns: append([]string(nil), DefaultColumns...)},
		Directory: DirectoryConfig{Path: "telegram_ids.json"},
		Logging:   LoggingConfig{Level: "info", Console: true},
	}
}

// Parse reads a JSON or YAML config file and decodes it strictly:
// unknown fields and trailing data are rejected.
func Parse(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(path, b)
}

func decode(path string, b []byte) (*Config, error) {
	jb, _, err := coerceToJSONBytes(path, b)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	// reject trailing tokens (e.g. concatenated JSON)
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("invalid config: trailing data")
		}
		return nil, err
	}
	if len(cfg.Sheets.Columns) == 0 {
		cfg.Sheets.Columns = append([]string(nil), DefaultColumns...)
	}
	return cfg, nil
}

// Load builds the effective configuration: file (if any), then the .env file
// (if present), then environment overrides. The result is validated.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		parsed, err := Parse(path)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = parsed
	}
	if err := LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	ApplyEnv(cfg, os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays non-empty environment values onto cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if cfg == nil || lookup == nil {
		return
	}
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvServiceAccountFile, &cfg.Sheets.CredentialsFile)
	set(EnvSpreadsheetID, &cfg.Sheets.SpreadsheetID)
	set(EnvTelegramToken, &cfg.Telegram.Token)
	set(EnvTelegramIDsFile, &cfg.Directory.Path)
	set(EnvSheetName, &cfg.Sheets.SheetName)
	set(EnvWorkbookPath, &cfg.Sheets.WorkbookPath)
	set(EnvLogLevel, &cfg.Logging.Level)
}
