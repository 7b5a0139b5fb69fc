package adapter

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"golang.org/x/time/rate"

	kit "duebot/internal/transport"
	logx "duebot/pkg/logx"
)

type Config struct {
	Token string
	// RatePerSec throttles outgoing sends client-side (Telegram allows ~30 msg/s per bot).
	RatePerSec int
	// SendTimeout bounds a single Bot API call.
	SendTimeout time.Duration
	// URL overrides the Bot API endpoint (tests / local bot API server).
	URL string
	// Offline skips the getMe token check at construction.
	Offline bool
}

// Adapter is a send-only Telegram transport.
// It never starts a poller: duebot runs once and exits.
type Adapter struct {
	cfg     Config
	log     logx.Logger
	bot     *tele.Bot
	limiter *rate.Limiter
}

func New(cfg Config, log logx.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 25
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 15 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	b, err := tele.NewBot(tele.Settings{
		Token:   cfg.Token,
		URL:     cfg.URL,
		Offline: cfg.Offline,
		Client:  &http.Client{Timeout: cfg.SendTimeout},
	})
	if err != nil {
		return nil, err
	}
	if b.Me != nil {
		log.Debug("telegram bot authorized", logx.String("username", b.Me.Username))
	}
	return &Adapter{
		cfg:     cfg,
		log:     log,
		bot:     b,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RatePerSec),
	}, nil
}

func (a *Adapter) SendText(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) (kit.MessageRef, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opt == nil {
		opt = &kit.SendOptions{}
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return kit.MessageRef{}, err
	}

	chat := &tele.Chat{ID: to.ChatID}
	sendOpt := &tele.SendOptions{
		ParseMode:             opt.ParseMode,
		DisableWebPagePreview: opt.DisablePreview,
		ThreadID:              to.ThreadID,
	}

	msg, err := a.bot.Send(chat, text, sendOpt)
	if err != nil {
		return kit.MessageRef{}, classify(err)
	}
	return kit.MessageRef{ChatID: to.ChatID, ThreadID: to.ThreadID, MessageID: msg.ID}, nil
}

var reServerCode = regexp.MustCompile(`\((5\d\d)\)\s*$`)

// classify maps telebot/net errors onto the transport error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var flood tele.FloodError
	if errors.As(err, &flood) {
		return &kit.RateLimitedError{RetryAfter: time.Duration(flood.RetryAfter) * time.Second, Err: err}
	}
	var floodPtr *tele.FloodError
	if errors.As(err, &floodPtr) && floodPtr != nil {
		return &kit.RateLimitedError{RetryAfter: time.Duration(floodPtr.RetryAfter) * time.Second, Err: err}
	}

	var apiErr *tele.Error
	if errors.As(err, &apiErr) && apiErr != nil && apiErr.Code >= 500 {
		return &kit.TransientError{Err: err}
	}
	if m := reServerCode.FindStringSubmatch(err.Error()); m != nil {
		if code, _ := strconv.Atoi(m[1]); code >= 500 {
			return &kit.TransientError{Err: err}
		}
	}

	var ne net.Error
	if errors.As(err, &ne) {
		return &kit.TransientError{Err: err}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) || errors.Is(err, context.DeadlineExceeded) {
		return &kit.TransientError{Err: err}
	}
	return err
}
