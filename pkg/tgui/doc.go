// Package tgui contains small helpers for building Telegram message text.
//
// Telegram's MarkdownV2 parse mode treats a fixed punctuation set as markup.
// Values of type MD are already escaped and safe to concatenate; plain strings
// must go through Esc first.
package tgui
