// Package sheet provides the spreadsheet I/O collaborators around the
// reconciliation core: reading a worksheet as ordered rows of named columns,
// enumerating a workbook's sheets and headers, and overlaying an annotation
// plan onto a styled copy of the original file.
//
// # Canonicalization
//
// ReadSheet returns every cell as its formatted string value (excelize
// GetRows), so numbers, dates, and text stringify deterministically and
// identically on both sides of a comparison. A blank cell is the empty
// string, which the core treats as null.
//
// # Marked copies
//
// ApplyMarks edits the original workbook in place and serializes the result,
// so all original styles, number formats, row heights, and column widths
// survive; only the marked cells get a new fill (and font for changed
// cells), derived from their existing style.
//
// # Inspection
//
// Inspect uses the streaming xlsxreader to pull each sheet's header row
// without materializing whole sheets, the cheap path for the upload
// response.
package sheet
