package notifier

import (
	"context"
	"time"
)

const (
	DefaultMaxAttempts = 5
	DefaultRetryDelay  = 5 * time.Second
)

// Config bounds the retry loop.
type Config struct {
	// MaxAttempts is the total number of send attempts per body (not retries).
	MaxAttempts int
	// RetryDelay is the wait after a transient failure.
	RetryDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	return c
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Recipients resolves a recipient key to a chat id.
type Recipients interface {
	Lookup(key string) (int64, bool)
}

// State is a delivery state for one message body.
type State int

const (
	Pending State = iota
	RateLimited
	TransientFailure
	Abandoned
	Delivered
	Exhausted
	Skipped
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case RateLimited:
		return "rate_limited"
	case TransientFailure:
		return "transient_failure"
	case Abandoned:
		return "abandoned"
	case Delivered:
		return "delivered"
	case Exhausted:
		return "exhausted"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further attempt will be made.
func (s State) Terminal() bool {
	switch s {
	case Abandoned, Delivered, Exhausted, Skipped:
		return true
	default:
		return false
	}
}

// Outcome is the final state of one body.
type Outcome struct {
	Recipient string
	ChatID    int64
	Body      int
	State     State
	Attempts  int
	Err       error
	// Reason explains a skip.
	Reason string
}

// Report summarizes a delivery pass.
type Report struct {
	Outcomes []Outcome
}

func (r Report) Count(s State) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.State == s {
			n++
		}
	}
	return n
}

// Failed counts bodies that were attempted but not delivered.
func (r Report) Failed() int { return r.Count(Abandoned) + r.Count(Exhausted) }
