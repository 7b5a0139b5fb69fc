// Package pipeline turns assignment sheet columns into per-handler messages.
//
// Stages run strictly in order, each consuming the whole output of the previous one:
//
//	Ingest -> Normalize -> Filter -> Group -> Render
//
// Delivery lives in the notifier package. Nothing here reads the wall clock:
// callers pass "today" explicitly (see Clock).
package pipeline
