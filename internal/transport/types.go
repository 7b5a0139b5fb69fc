package transport

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type ChatTarget struct {
	ChatID   int64
	ThreadID int // telegram forum topic thread id (0 if none)
}

type MessageRef struct {
	ChatID    int64
	ThreadID  int
	MessageID int
}

// Parse modes understood by the Telegram adapter.
const (
	ParseModeMarkdownV2 = "MarkdownV2"
	ParseModeHTML       = "HTML"
)

type SendOptions struct {
	ParseMode      string
	DisablePreview bool
}

// Sender delivers a single text message to a chat.
//
// Errors are classified by type:
//   - *RateLimitedError: the platform asked us to wait RetryAfter before retrying
//   - *TransientError: network/server hiccup, retrying later may succeed
//   - anything else: permanent for this message
type Sender interface {
	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) (MessageRef, error)
}

type RateLimitedError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited (retry after %s)", e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error { return e.Err }

type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	if e.Err == nil {
		return "transient transport failure"
	}
	return "transient transport failure: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error { return e.Err }

// AsRateLimited reports whether err carries a rate-limit signal.
func AsRateLimited(err error) (*RateLimitedError, bool) {
	var rl *RateLimitedError
	if errors.As(err, &rl) && rl != nil {
		return rl, true
	}
	return nil, false
}

// IsTransient reports whether err is worth retrying after a fixed delay.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
