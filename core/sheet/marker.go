package sheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"sheet-recon/core/recon"
)

const (
	uniqueRowFill   = "90EE90"
	changedCellFill = "FFFF00"
	changedCellFont = "FF0000"

	commentAuthor = "sheet-recon"
)

// ApplyMarks overlays an annotation plan onto a copy of the original
// workbook and returns the marked file content. The original styles, number
// formats, row heights, and column widths are left intact; each marked cell
// gets a new style derived from its existing one, with the mark's fill (and
// a red font for changed cells) swapped in. Notes become cell comments.
//
// Mark application is best-effort like the plan itself: a cell whose style
// cannot be resolved keeps a bare mark style instead of failing the copy.
func ApplyMarks(content []byte, sheetName string, plan *recon.AnnotationPlan) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, &LoadError{Name: sheetName, Err: err}
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, &LoadError{Name: sheetName, Err: fmt.Errorf("sheet not found")}
	}

	// Derived styles are cached per (base style, mark kind) so a sheet with
	// thousands of marks creates only a handful of style records.
	styleCache := make(map[string]int)

	for _, mark := range plan.Marks {
		cell, err := excelize.CoordinatesToCellName(mark.Column, mark.Row)
		if err != nil {
			continue
		}

		styleID, err := markedStyle(f, sheetName, cell, mark.Kind, styleCache)
		if err == nil {
			_ = f.SetCellStyle(sheetName, cell, cell, styleID)
		}

		if mark.Note != "" {
			_ = f.AddComment(sheetName, excelize.Comment{
				Cell:   cell,
				Author: commentAuthor,
				Paragraph: []excelize.RichTextRun{
					{Text: mark.Note},
				},
			})
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize marked copy: %w", err)
	}
	return buf.Bytes(), nil
}

// markedStyle resolves the style to apply for a mark on a cell, deriving it
// from the cell's current style so existing formatting survives.
func markedStyle(f *excelize.File, sheetName, cell string, kind recon.MarkKind, cache map[string]int) (int, error) {
	baseID, err := f.GetCellStyle(sheetName, cell)
	if err != nil {
		baseID = 0
	}

	cacheKey := fmt.Sprintf("%d|%s", baseID, kind)
	if id, ok := cache[cacheKey]; ok {
		return id, nil
	}

	style, err := f.GetStyle(baseID)
	if err != nil || style == nil {
		style = &excelize.Style{}
	}

	switch kind {
	case recon.MarkChangedCell:
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{changedCellFill}}
		if style.Font == nil {
			style.Font = &excelize.Font{}
		}
		style.Font.Color = changedCellFont
	default:
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{uniqueRowFill}}
	}

	id, err := f.NewStyle(style)
	if err != nil {
		return 0, err
	}
	cache[cacheKey] = id
	return id, nil
}
