package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"duebot/internal/source"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestParseJSON(t *testing.T) {
	t.Parallel()
	p := writeFile(t, "cfg.json", `{
  "telegram": {"token": "123:abc", "rate_per_sec": 10, "send_timeout": "5s"},
  "sheets": {"driver": "xlsx", "workbook_path": "book.xlsx", "columns": ["a", "c"]},
  "directory": {"path": "ids.json"},
  "delivery": {"max_attempts": 3, "retry_delay": "2s"},
  "logging": {"level": "debug", "console": false}
}`)
	cfg, err := Parse(p)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" || cfg.Telegram.RatePerSec != 10 {
		t.Fatalf("telegram = %+v", cfg.Telegram)
	}
	if cfg.Sheets.DriverName() != DriverXLSX || !reflect.DeepEqual(cfg.Sheets.Columns, []string{"a", "c"}) {
		t.Fatalf("sheets = %+v", cfg.Sheets)
	}
	if cfg.Delivery.MaxAttempts != 3 || cfg.Logging.Console {
		t.Fatalf("cfg = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseYAMLDefaultsColumns(t *testing.T) {
	t.Parallel()
	p := writeFile(t, "cfg.yaml", `
sheets:
  driver: google
  credentials_file: sa.json
  spreadsheet_id: sheet-1
directory:
  path: ids.yaml
delivery:
  retry_delay: 1m
`)
	cfg, err := Parse(p)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(cfg.Sheets.Columns, DefaultColumns) {
		t.Fatalf("columns = %v, want defaults", cfg.Sheets.Columns)
	}
	d, err := ParseDurationField("delivery.retry_delay", cfg.Delivery.RetryDelay)
	if err != nil || d != time.Minute {
		t.Fatalf("retry_delay = %v, %v", d, err)
	}
	if !cfg.Logging.Console || cfg.Logging.Level != "info" {
		t.Fatalf("logging defaults lost: %+v", cfg.Logging)
	}
}

func TestParseStrict(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name, file, body string
	}{
		{name: "unknown field", file: "a.json", body: `{"telegram": {"tokn": "x"}}`},
		{name: "trailing data", file: "b.json", body: `{"directory": {"path": "x"}} {}`},
		{name: "bad yaml", file: "c.yml", body: "sheets: [unclosed"},
		{name: "unknown yaml field", file: "d.yaml", body: "scheduler:\n  enabled: true\n"},
	}
	for _, tt := range tests {
		if _, err := Parse(writeFile(t, tt.file, tt.body)); err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()
	env := map[string]string{
		EnvServiceAccountFile: "/secrets/sa.json",
		EnvSpreadsheetID:      " sheet-42 ",
		EnvTelegramToken:      "999:xyz",
		EnvTelegramIDsFile:    "/etc/duebot/ids.json",
		EnvSheetName:          "MAY - 2025",
		EnvWorkbookPath:       "",
		EnvLogLevel:           "warn",
	}
	cfg := Default()
	cfg.Sheets.WorkbookPath = "keep.xlsx"
	ApplyEnv(cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	if cfg.Sheets.CredentialsFile != "/secrets/sa.json" || cfg.Sheets.SpreadsheetID != "sheet-42" {
		t.Fatalf("sheets = %+v", cfg.Sheets)
	}
	if cfg.Telegram.Token != "999:xyz" || cfg.Directory.Path != "/etc/duebot/ids.json" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Sheets.SheetName != "MAY - 2025" || cfg.Logging.Level != "warn" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Sheets.WorkbookPath != "keep.xlsx" {
		t.Fatalf("blank env value must not override, got %q", cfg.Sheets.WorkbookPath)
	}
}

func TestLoadWithEnvFile(t *testing.T) {
	// Not parallel: mutates the process environment.
	for _, k := range []string{EnvServiceAccountFile, EnvSpreadsheetID, EnvTelegramToken} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	envFile := writeFile(t, ".env", "SERVICE_ACCOUNT_FILE=sa.json\nSPREADSHEET_ID=abc\nTELEGRAM_BOT_TOKEN=1:x\n")

	cfg, err := Load("", envFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sheets.CredentialsFile != "sa.json" || cfg.Sheets.SpreadsheetID != "abc" || cfg.Telegram.Token != "1:x" {
		t.Fatalf("env file not applied: %+v", cfg)
	}
}

func TestLoadEnvFileMissingIsIgnored(t *testing.T) {
	t.Parallel()
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if err := LoadEnvFile(""); err != nil {
		t.Fatalf("LoadEnvFile(\"\"): %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	valid := func() *Config {
		c := Default()
		c.Sheets.CredentialsFile = "sa.json"
		c.Sheets.SpreadsheetID = "id"
		return c
	}
	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{name: "bad duration", mutate: func(c *Config) { c.Delivery.RetryDelay = "soon" }, want: "delivery.retry_delay"},
		{name: "negative duration", mutate: func(c *Config) { c.Telegram.SendTimeout = "-1s" }, want: "telegram.send_timeout"},
		{name: "negative attempts", mutate: func(c *Config) { c.Delivery.MaxAttempts = -1 }, want: "max_attempts"},
		{name: "negative rate", mutate: func(c *Config) { c.Telegram.RatePerSec = -2 }, want: "rate_per_sec"},
		{name: "missing credentials", mutate: func(c *Config) { c.Sheets.CredentialsFile = "" }, want: "credentials_file"},
		{name: "missing workbook", mutate: func(c *Config) { c.Sheets.Driver = "xlsx" }, want: "workbook_path"},
		{name: "bad column", mutate: func(c *Config) { c.Sheets.Columns = []string{"A", "1"} }, want: "sheets.columns"},
		{name: "no columns", mutate: func(c *Config) { c.Sheets.Columns = nil }, want: "sheets.columns"},
		{name: "no directory", mutate: func(c *Config) { c.Directory.Path = " " }, want: "directory.path"},
	}
	for _, tt := range tests {
		c := valid()
		tt.mutate(c)
		err := c.Validate()
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("%s: err = %v, want mention of %q", tt.name, err, tt.want)
		}
	}

	c := valid()
	c.Sheets.Driver = "postgres"
	if err := c.Validate(); !errors.Is(err, source.ErrUnknownDriver) {
		t.Fatalf("unknown driver: err = %v", err)
	}
}
