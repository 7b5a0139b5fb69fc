package source

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	logx "duebot/pkg/logx"
)

func TestParseLocator(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want Locator
	}{
		{raw: "MAY - 2025!A:A", want: Locator{Sheet: "MAY - 2025", Column: "A"}},
		{raw: "Sheet1!l:l", want: Locator{Sheet: "Sheet1", Column: "L"}},
		{raw: "'My Sheet'!AB", want: Locator{Sheet: "My Sheet", Column: "AB"}},
	}
	for _, tt := range tests {
		got, err := ParseLocator(tt.raw)
		if err != nil {
			t.Fatalf("ParseLocator(%q) error: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseLocator(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}
	if got := (Locator{Sheet: "MAY - 2025", Column: "F"}).String(); got != "MAY - 2025!F:F" {
		t.Fatalf("String() = %q", got)
	}
}

func TestParseLocatorInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "A:A", "Sheet!", "Sheet!A:B", "Sheet!1:1"} {
		if _, err := ParseLocator(raw); err == nil {
			t.Fatalf("ParseLocator(%q): expected error", raw)
		}
	}
}

func TestLocators(t *testing.T) {
	t.Parallel()
	locs, err := Locators("JUNE - 2025", []string{"a", " B ", "L"})
	if err != nil {
		t.Fatalf("Locators: %v", err)
	}
	want := []Locator{{"JUNE - 2025", "A"}, {"JUNE - 2025", "B"}, {"JUNE - 2025", "L"}}
	if !reflect.DeepEqual(locs, want) {
		t.Fatalf("Locators = %+v, want %+v", locs, want)
	}
	if _, err := Locators("X", []string{"7"}); err == nil {
		t.Fatal("expected error for numeric column")
	}

	locs, err = Locators("JUNE - 2025", []string{"A", "MAY - 2025!F:F"})
	if err != nil {
		t.Fatalf("Locators: %v", err)
	}
	if locs[1] != (Locator{Sheet: "MAY - 2025", Column: "F"}) {
		t.Fatalf("explicit locator = %+v", locs[1])
	}
	if _, err := Locators("X", []string{"MAY!A:C"}); err == nil {
		t.Fatal("expected error for multi-column range")
	}
}

func TestMonthlySheetName(t *testing.T) {
	t.Parallel()
	got := MonthlySheetName(time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC))
	if got != "OCTOBER - 2026" {
		t.Fatalf("MonthlySheetName = %q", got)
	}
}

func TestWorkbookColumnShape(t *testing.T) {
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	const sheet = "MAY - 2025"
	if _, err := f.NewSheet(sheet); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	cells := map[string]string{
		"A1": "Assignment", "A2": "Invoice", "A4": "Audit",
		"B1": "Handle By", "B2": "bob",
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("SetCellValue(%s): %v", cell, err)
		}
	}
	src := NewWorkbookSource(f, logx.Nop())

	colA, err := src.Column(context.Background(), Locator{Sheet: sheet, Column: "A"})
	if err != nil {
		t.Fatalf("Column(A): %v", err)
	}
	wantA := [][]string{{"Assignment"}, {"Invoice"}, {}, {"Audit"}}
	if !reflect.DeepEqual(colA, wantA) {
		t.Fatalf("column A = %#v, want %#v", colA, wantA)
	}

	colB, err := src.Column(context.Background(), Locator{Sheet: sheet, Column: "B"})
	if err != nil {
		t.Fatalf("Column(B): %v", err)
	}
	wantB := [][]string{{"Handle By"}, {"bob"}}
	if !reflect.DeepEqual(colB, wantB) {
		t.Fatalf("column B = %#v, want %#v", colB, wantB)
	}

	colZ, err := src.Column(context.Background(), Locator{Sheet: sheet, Column: "Z"})
	if err != nil {
		t.Fatalf("Column(Z): %v", err)
	}
	if len(colZ) != 0 {
		t.Fatalf("empty column should have no rows, got %#v", colZ)
	}

	if _, err := src.Column(context.Background(), Locator{Sheet: "MISSING", Column: "A"}); err == nil {
		t.Fatal("expected error for missing sheet")
	}
}

func TestOpenWorkbookFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	f := excelize.NewFile()
	if err := f.SetCellValue("Sheet1", "C1", "Checked"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	_ = f.Close()

	src, err := Open(context.Background(), Config{Driver: "xlsx", WorkbookPath: path}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()
	col, err := src.Column(context.Background(), Locator{Sheet: "Sheet1", Column: "C"})
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if !reflect.DeepEqual(col, [][]string{{"Checked"}}) {
		t.Fatalf("column = %#v", col)
	}
}

func TestOpenErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	if _, err := Open(ctx, Config{Driver: "carrier-pigeon"}, logx.Nop()); !errors.Is(err, ErrUnknownDriver) {
		t.Fatalf("expected ErrUnknownDriver, got %v", err)
	}
	if _, err := Open(ctx, Config{Driver: "xlsx"}, logx.Nop()); err == nil {
		t.Fatal("expected error for missing workbook path")
	}
	if _, err := Open(ctx, Config{Driver: "xlsx", WorkbookPath: filepath.Join(t.TempDir(), "nope.xlsx")}, logx.Nop()); err == nil {
		t.Fatal("expected error for missing workbook file")
	}
	if _, err := Open(ctx, Config{Driver: "google", SpreadsheetID: "abc"}, logx.Nop()); err == nil {
		t.Fatal("expected error for missing credentials")
	}
	if _, err := Open(ctx, Config{Driver: "google", CredentialsFile: filepath.Join(t.TempDir(), "sa.json"), SpreadsheetID: "abc"}, logx.Nop()); err == nil {
		t.Fatal("expected error for unreadable credentials")
	}
}

func TestCellsToStrings(t *testing.T) {
	t.Parallel()
	got := cellsToStrings([][]interface{}{{"Due Date"}, {}, {float64(45000)}, {true}, {nil}})
	want := [][]string{{"Due Date"}, {}, {"45000"}, {"true"}, {""}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("cellsToStrings = %#v, want %#v", got, want)
	}
}
