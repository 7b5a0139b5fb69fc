// Package source reads single-column ranges from a tabular data source.
//
// It currently supports:
//   - Google Sheets (API v4, service-account credentials)
//   - Local .xlsx workbooks (excelize)
//
// Every driver returns column values in the shape the Sheets API uses for a
// single-column range: one row per sheet row, each row holding zero or one
// cell, trailing empty rows trimmed.
package source
