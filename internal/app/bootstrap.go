package app

import (
	"time"

	"duebot/internal/config"
	"duebot/internal/notifier"
	"duebot/internal/source"
	telegram "duebot/internal/transport/telegram/adapter"
	logx "duebot/pkg/logx"
)

// ---- Config mapping ----

func mapLogConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	}
}

func mapSourceConfig(cfg *config.Config) (source.Config, error) {
	timeout, err := config.ParseDurationOrDefault("sheets.timeout", cfg.Sheets.Timeout, 30*time.Second)
	if err != nil {
		return source.Config{}, err
	}
	return source.Config{
		Driver:          cfg.Sheets.DriverName(),
		CredentialsFile: cfg.Sheets.CredentialsFile,
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		WorkbookPath:    cfg.Sheets.WorkbookPath,
		Timeout:         timeout,
	}, nil
}

func mapTelegramConfig(cfg *config.Config) (telegram.Config, error) {
	timeout, err := config.ParseDurationOrDefault("telegram.send_timeout", cfg.Telegram.SendTimeout, 15*time.Second)
	if err != nil {
		return telegram.Config{}, err
	}
	return telegram.Config{
		Token:       cfg.Telegram.Token,
		RatePerSec:  cfg.Telegram.RatePerSec,
		SendTimeout: timeout,
	}, nil
}

func mapDeliveryConfig(cfg *config.Config) (notifier.Config, error) {
	delay, err := config.ParseDurationOrDefault("delivery.retry_delay", cfg.Delivery.RetryDelay, notifier.DefaultRetryDelay)
	if err != nil {
		return notifier.Config{}, err
	}
	return notifier.Config{
		MaxAttempts: cfg.Delivery.MaxAttempts,
		RetryDelay:  delay,
	}, nil
}
