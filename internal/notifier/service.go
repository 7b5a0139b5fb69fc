package notifier

import (
	"context"
	"errors"
	"strings"
	"time"

	"duebot/internal/pipeline"
	kit "duebot/internal/transport"
	logx "duebot/pkg/logx"
)

var ErrNoSender = errors.New("notifier: no sender configured")

// Deliverer sends rendered messages one body at a time.
type Deliverer struct {
	sender kit.Sender
	cfg    Config
	sleep  Sleeper
	log    logx.Logger
}

func New(cfg Config, sender kit.Sender, sleep Sleeper, log logx.Logger) *Deliverer {
	if log.IsZero() {
		log = logx.Nop()
	}
	if sleep == nil {
		sleep = ContextSleep
	}
	return &Deliverer{
		sender: sender,
		cfg:    cfg.withDefaults(),
		sleep:  sleep,
		log:    log.With(logx.String("comp", "notifier")),
	}
}

// Config returns the effective configuration (defaults applied).
func (d *Deliverer) Config() Config { return d.cfg }

// Deliver sends every message in order. A failure for one recipient never
// stops delivery to the others. Cancellation of ctx stops the pass; bodies not
// yet attempted are left out of the report.
func (d *Deliverer) Deliver(ctx context.Context, dir Recipients, msgs []pipeline.Message) Report {
	if ctx == nil {
		ctx = context.Background()
	}
	var rep Report
	for _, m := range msgs {
		if ctx.Err() != nil {
			d.log.Warn("delivery interrupted", logx.Err(ctx.Err()))
			break
		}
		chatID, ok := lookup(dir, m.Recipient)
		if !ok {
			d.log.Warn("no chat id for recipient, skipping", logx.String("recipient", m.Recipient))
			rep.Outcomes = append(rep.Outcomes, Outcome{Recipient: m.Recipient, State: Skipped, Reason: "unknown recipient"})
			continue
		}
		for i, body := range m.Bodies {
			if strings.TrimSpace(body) == "" {
				d.log.Warn("empty message body, skipping", logx.String("recipient", m.Recipient), logx.Int64("chat_id", chatID))
				rep.Outcomes = append(rep.Outcomes, Outcome{Recipient: m.Recipient, ChatID: chatID, Body: i, State: Skipped, Reason: "empty body"})
				continue
			}
			out := d.sendWithRetry(ctx, m.Recipient, kit.ChatTarget{ChatID: chatID}, body)
			out.Body = i
			rep.Outcomes = append(rep.Outcomes, out)
		}
	}
	return rep
}

func lookup(dir Recipients, key string) (int64, bool) {
	if dir == nil {
		return 0, false
	}
	id, ok := dir.Lookup(key)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

func (d *Deliverer) sendWithRetry(ctx context.Context, recipient string, to kit.ChatTarget, text string) Outcome {
	out := Outcome{Recipient: recipient, ChatID: to.ChatID, State: Pending}
	log := d.log.With(logx.String("recipient", recipient), logx.Int64("chat_id", to.ChatID))

	if d.sender == nil {
		out.State = Abandoned
		out.Err = ErrNoSender
		log.Error("delivery abandoned", logx.Err(ErrNoSender))
		return out
	}

	opts := &kit.SendOptions{ParseMode: kit.ParseModeMarkdownV2, DisablePreview: true}
	for !out.State.Terminal() {
		out.Attempts++
		_, err := d.sender.SendText(ctx, to, text, opts)
		if err == nil {
			out.State = Delivered
			out.Err = nil
			log.Info("message delivered", logx.Int("attempt", out.Attempts))
			break
		}
		out.Err = err

		var wait time.Duration
		if rl, ok := kit.AsRateLimited(err); ok {
			out.State = RateLimited
			wait = rl.RetryAfter
		} else if kit.IsTransient(err) {
			out.State = TransientFailure
			wait = d.cfg.RetryDelay
		} else {
			out.State = Abandoned
			log.Error("delivery abandoned",
				logx.Int("attempt", out.Attempts),
				logx.Err(err),
				logx.Stack(logx.StackTrace(16)),
			)
			break
		}

		if out.Attempts >= d.cfg.MaxAttempts {
			out.State = Exhausted
			log.Warn("delivery attempts exhausted", logx.Int("attempts", out.Attempts), logx.Err(err))
			break
		}

		log.Warn("send failed, retrying",
			logx.String("state", out.State.String()),
			logx.Int("attempt", out.Attempts),
			logx.Int("max", d.cfg.MaxAttempts),
			logx.Duration("wait", wait),
			logx.Err(err),
		)
		if serr := d.sleep(ctx, wait); serr != nil {
			out.State = Abandoned
			out.Err = errors.Join(err, serr)
			log.Warn("delivery cancelled while waiting to retry", logx.Int("attempt", out.Attempts), logx.Err(serr))
			break
		}
	}
	return out
}

// ContextSleep waits d using a timer, returning ctx.Err() on cancellation.
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
