package recon

import (
	"fmt"
	"strings"
	"time"
)

const (
	bannerLine  = "============================================================"
	sectionLine = "------------------------------------------------------------"
)

// ReportMeta carries the comparison context shown in the report header.
type ReportMeta struct {
	// File1Name and File2Name are display names for the two inputs.
	File1Name string
	File2Name string

	// Sheet1 and Sheet2 are the compared worksheet names.
	Sheet1 string
	Sheet2 string

	// KeyColumns is the composite key column list.
	KeyColumns []string

	// ComparedAt is the report timestamp. Zero means omit the line.
	ComparedAt time.Time
}

// RenderReport formats a DiffResult as the human-facing text report.
// Output is fully determined by its inputs; keys and columns render in the
// sorted order the engine produced.
func RenderReport(diff *DiffResult, left, right *Table, meta ReportMeta) string {
	var b strings.Builder

	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line(bannerLine)
	line("Spreadsheet comparison result")
	if !meta.ComparedAt.IsZero() {
		line("Compared at: %s", meta.ComparedAt.Format("2006-01-02 15:04:05"))
	}
	line(bannerLine)
	if meta.File1Name != "" {
		line("File 1: %s (sheet: %s)", meta.File1Name, meta.Sheet1)
		line("File 2: %s (sheet: %s)", meta.File2Name, meta.Sheet2)
	} else {
		line("File 1 sheet: %s", meta.Sheet1)
		line("File 2 sheet: %s", meta.Sheet2)
	}
	line("Key columns: [%s]", strings.Join(meta.KeyColumns, ", "))
	line(sectionLine)

	s := diff.Summary
	line("File 1 rows: %d, columns: %d", s.LeftRows, s.LeftColumns)
	line("File 2 rows: %d, columns: %d", s.RightRows, s.RightColumns)

	line(sectionLine)
	line("Row level differences:")
	line("  Rows only in file 1: %d", s.OnlyInLeft)
	line("  Rows only in file 2: %d", s.OnlyInRight)
	line("  Rows common to both: %d", s.Common)

	if len(diff.OnlyInLeft) > 0 {
		line(sectionLine)
		line("Rows only in file 1:")
		for _, key := range diff.OnlyInLeft {
			line("  [file 1 row %s] key: %s", rowRef(left, key), key)
		}
	}
	if len(diff.OnlyInRight) > 0 {
		line(sectionLine)
		line("Rows only in file 2:")
		for _, key := range diff.OnlyInRight {
			line("  [file 2 row %s] key: %s", rowRef(right, key), key)
		}
	}

	line(sectionLine)
	line("Common row value differences:")
	if s.DiffRows == 0 {
		line("  no value differences")
	} else {
		for _, key := range diff.CommonKeys {
			fields, ok := diff.RowDiffs[key]
			if !ok {
				continue
			}
			line("  key: %s [file 1 row %s vs file 2 row %s]", key, rowRef(left, key), rowRef(right, key))
			for _, fd := range fields {
				line("    column [%s]: file 1='%s' vs file 2='%s'", fd.Column, fd.Left, fd.Right)
			}
		}
	}

	if len(diff.OnlyInLeftColumns) > 0 || len(diff.OnlyInRightColumns) > 0 {
		line(sectionLine)
		line("Column level differences:")
		if len(diff.OnlyInLeftColumns) > 0 {
			line("  Columns only in file 1: [%s]", strings.Join(diff.OnlyInLeftColumns, ", "))
		}
		if len(diff.OnlyInRightColumns) > 0 {
			line("  Columns only in file 2: [%s]", strings.Join(diff.OnlyInRightColumns, ", "))
		}
	}

	line(bannerLine)
	line("Comparison finished")
	line(bannerLine)

	return b.String()
}

// rowRef formats the first-occurrence row number for a key, or "?" when the
// table has no such key.
func rowRef(t *Table, key string) string {
	if rowNum, ok := t.KeyToFirstRow[key]; ok {
		return fmt.Sprintf("%d", rowNum)
	}
	return "?"
}
