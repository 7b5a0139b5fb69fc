package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"duebot/internal/config"
	"duebot/internal/directory"
	"duebot/internal/notifier"
	"duebot/internal/pipeline"
	"duebot/internal/source"
	kit "duebot/internal/transport"
	telegram "duebot/internal/transport/telegram/adapter"
	logx "duebot/pkg/logx"
)

var ErrNoRecipients = errors.New("recipient directory is empty")

// Options overrides collaborators. Zero values mean "build from config".
type Options struct {
	Source source.Source
	Sender kit.Sender
	Clock  pipeline.Clock
	Sleep  notifier.Sleeper
	Logger logx.Logger
	DryRun bool
}

// Summary describes a completed run.
type Summary struct {
	RunID      string
	Sheet      string
	Today      time.Time
	Rows       int
	Actionable int
	Recipients int
	DryRun     bool
	Report     notifier.Report
}

type App struct {
	cfg  *config.Config
	opts Options

	log  logx.Logger
	logs *logx.Service
}

func New(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	a := &App{cfg: cfg, opts: opts}
	if opts.Logger.IsZero() {
		a.logs, a.log = logx.New(mapLogConfig(cfg))
	} else {
		a.log = opts.Logger
	}
	if a.opts.Clock == nil {
		a.opts.Clock = pipeline.SystemClock
	}
	return a, nil
}

// Close releases the log file sink, if any.
func (a *App) Close() error {
	if a.logs != nil {
		return a.logs.Close()
	}
	return nil
}

// Run executes one pass: load recipients, read the sheet, then deliver (or
// log, on a dry run). Only setup failures are returned; per-column and
// per-message failures are logged and reflected in the summary.
func (a *App) Run(ctx context.Context) (Summary, error) {
	runID := uuid.NewString()
	log := a.log.With(logx.String("run", runID))
	start := time.Now()
	sum := Summary{RunID: runID, DryRun: a.opts.DryRun}

	// A dry run only logs grouped data, so it does not need recipients.
	var (
		dir    *directory.Directory
		sender kit.Sender
	)
	if !a.opts.DryRun {
		dir = directory.Load(a.cfg.Directory.Path, log.With(logx.String("comp", "directory")))
		if dir.Len() == 0 {
			return sum, fmt.Errorf("%w: %s", ErrNoRecipients, a.cfg.Directory.Path)
		}
		s, err := a.sender(log)
		if err != nil {
			return sum, err
		}
		sender = s
	}

	src, err := a.source(ctx, log)
	if err != nil {
		return sum, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			log.Warn("closing source failed", logx.Err(cerr))
		}
	}()

	now := a.opts.Clock()
	sheet := strings.TrimSpace(a.cfg.Sheets.SheetName)
	if sheet == "" {
		sheet = source.MonthlySheetName(now)
	}
	sum.Sheet = sheet
	locs, err := source.Locators(sheet, a.cfg.Sheets.Columns)
	if err != nil {
		return sum, fmt.Errorf("sheets.columns: %w", err)
	}
	log.Info("run started", logx.String("sheet", sheet), logx.Int("recipients", dir.Len()), logx.Bool("dry_run", a.opts.DryRun))

	res := pipeline.Prepare(ctx, src, locs, now, log.With(logx.String("comp", "pipeline")))
	sum.Today = res.Today
	sum.Rows = res.Rows
	sum.Actionable = res.Actionable
	sum.Recipients = res.Grouped.Len()

	if a.opts.DryRun {
		pipeline.LogGrouped(log.With(logx.String("comp", "dry-run")), res.Grouped, res.Today)
		log.Info("dry run finished",
			logx.String("sheet", sheet),
			logx.Int("rows", sum.Rows),
			logx.Int("actionable", sum.Actionable),
			logx.Int("recipients", sum.Recipients),
			logx.Duration("took", time.Since(start)),
		)
		return sum, nil
	}

	dcfg, err := mapDeliveryConfig(a.cfg)
	if err != nil {
		return sum, err
	}
	d := notifier.New(dcfg, sender, a.opts.Sleep, log)
	sum.Report = d.Deliver(ctx, dir, res.Messages)

	log.Info("run finished",
		logx.String("sheet", sheet),
		logx.Int("rows", sum.Rows),
		logx.Int("actionable", sum.Actionable),
		logx.Int("recipients", sum.Recipients),
		logx.Int("delivered", sum.Report.Count(notifier.Delivered)),
		logx.Int("skipped", sum.Report.Count(notifier.Skipped)),
		logx.Int("abandoned", sum.Report.Count(notifier.Abandoned)),
		logx.Int("exhausted", sum.Report.Count(notifier.Exhausted)),
		logx.Duration("took", time.Since(start)),
	)
	return sum, nil
}

func (a *App) sender(log logx.Logger) (kit.Sender, error) {
	if a.opts.Sender != nil {
		return a.opts.Sender, nil
	}
	tcfg, err := mapTelegramConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	ad, err := telegram.New(tcfg, log.With(logx.String("comp", "telegram")))
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return ad, nil
}

func (a *App) source(ctx context.Context, log logx.Logger) (source.Source, error) {
	if a.opts.Source != nil {
		return a.opts.Source, nil
	}
	scfg, err := mapSourceConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	src, err := source.Open(ctx, scfg, log.With(logx.String("comp", "source")))
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	return src, nil
}
