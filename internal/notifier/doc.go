// Package notifier delivers rendered assignment summaries to recipients.
//
// Delivery is synchronous: one body at a time, each driven by a small retry
// state machine. Rate-limit signals from the transport are honored by waiting
// the advised interval; transient failures wait a fixed delay; any other error
// abandons that body and delivery moves on to the next one.
//
// # Sleeping
//
// Waits go through a Sleeper so tests can observe them without real timers.
// The default sleeper returns early when the context is cancelled.
//
// # Report
//
// Deliver returns a Report with one Outcome per body (or per skipped
// recipient) plus aggregate counts, suitable for a run summary log line.
package notifier
