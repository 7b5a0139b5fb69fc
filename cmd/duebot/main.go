package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"duebot/internal/app"
	"duebot/internal/config"
	logx "duebot/pkg/logx"
)

func main() {
	var (
		cfgPath string
		envPath string
		dryRun  bool
	)
	flag.StringVar(&cfgPath, "config", "", "path to config json/yaml (empty: defaults + environment)")
	flag.StringVar(&envPath, "env", ".env", "path to .env file (ignored when missing)")
	flag.BoolVar(&dryRun, "dry-run", false, "log grouped assignments instead of sending")
	flag.Parse()

	os.Exit(run(cfgPath, envPath, dryRun))
}

// run owns every deferred cleanup so main can exit with its status.
func run(cfgPath, envPath string, dryRun bool) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Used until the configured logger exists.
	bootLog := logx.NewConsole("info").With(logx.String("comp", "main"))

	cfg, err := config.Load(cfgPath, envPath)
	if err != nil {
		bootLog.Error("fatal: config", logx.Err(err))
		return 1
	}

	a, err := app.New(cfg, app.Options{DryRun: dryRun})
	if err != nil {
		bootLog.Error("fatal: app", logx.Err(err))
		return 1
	}
	defer a.Close()

	if _, err := a.Run(ctx); err != nil {
		bootLog.Error("fatal: run", logx.Err(err))
		return 1
	}
	return 0
}
