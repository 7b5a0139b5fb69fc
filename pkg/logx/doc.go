// Package logx configures duebot's structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep:
//   - Console output readable (short timestamp + short caller)
//   - File output JSON-structured
//   - Test output capturable (NewWriter writes JSON lines to any io.Writer)
package logx
