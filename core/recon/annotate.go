package recon

import "fmt"

// MarkKind classifies a cell-level annotation.
type MarkKind string

const (
	// MarkUniqueRow highlights a row whose key exists only in this file.
	MarkUniqueRow MarkKind = "unique_row"

	// MarkChangedCell highlights a cell whose value differs from the other file.
	MarkChangedCell MarkKind = "changed_cell"
)

// CellMark is one declarative style instruction for the styling collaborator.
type CellMark struct {
	// Row is the 1-based spreadsheet row number.
	Row int `json:"row"`

	// Column is the 1-based spreadsheet column number.
	Column int `json:"column"`

	// Kind selects the highlight style.
	Kind MarkKind `json:"kind"`

	// Note is an optional comment to attach at the cell. Empty means no
	// comment.
	Note string `json:"note,omitempty"`
}

// AnnotationPlan lists every mark to overlay on one side's worksheet copy.
type AnnotationPlan struct {
	// Side marks which input file the plan applies to.
	Side Side `json:"side"`

	// Marks holds the cell instructions in emission order.
	Marks []CellMark `json:"marks"`
}

// PlanAnnotations maps a DiffResult back onto the two source tables as
// cell-level mark instructions, one plan per side.
//
// Rows unique to a side get a whole-row unique mark with a note anchored at
// the first key column. Common rows with differing columns get a changed
// mark per differing cell, with a note naming the counterpart row and value.
// The mapping is best-effort: an unresolvable column or row is skipped, not
// an error. Source tables are never mutated.
func PlanAnnotations(diff *DiffResult, left, right *Table) (*AnnotationPlan, *AnnotationPlan) {
	leftPlan := planSide(diff.OnlyInLeft, diff, left, right)
	rightPlan := planSide(diff.OnlyInRight, diff, right, left)
	return leftPlan, rightPlan
}

func planSide(uniqueKeys []string, diff *DiffResult, own, other *Table) *AnnotationPlan {
	plan := &AnnotationPlan{Side: own.Side, Marks: []CellMark{}}

	noteCol := 0
	if len(own.KeyColumns) > 0 {
		if idx, ok := own.ColumnIndex(own.KeyColumns[0]); ok {
			noteCol = idx
		}
	}

	for _, key := range uniqueKeys {
		rowNum, ok := own.KeyToFirstRow[key]
		if !ok {
			continue
		}
		for col := 1; col <= len(own.Columns); col++ {
			mark := CellMark{Row: rowNum, Column: col, Kind: MarkUniqueRow}
			if col == noteCol {
				mark.Note = "Row exists only in this file"
			}
			plan.Marks = append(plan.Marks, mark)
		}
	}

	for _, key := range diff.CommonKeys {
		fields, ok := diff.RowDiffs[key]
		if !ok {
			continue
		}
		rowNum, ok := own.KeyToFirstRow[key]
		if !ok {
			continue
		}
		otherRow, otherKnown := other.KeyToFirstRow[key]

		for _, fd := range fields {
			colIdx, ok := own.ColumnIndex(fd.Column)
			if !ok {
				continue
			}
			otherValue := fd.Right
			if own.Side == SideRight {
				otherValue = fd.Left
			}
			note := fmt.Sprintf("Differs from %s, column [%s]\n%s value: %s",
				other.Side.Label(), fd.Column, other.Side.Label(), otherValue)
			if otherKnown {
				note = fmt.Sprintf("Differs from %s row %d, column [%s]\n%s value: %s",
					other.Side.Label(), otherRow, fd.Column, other.Side.Label(), otherValue)
			}
			plan.Marks = append(plan.Marks, CellMark{
				Row:    rowNum,
				Column: colIdx,
				Kind:   MarkChangedCell,
				Note:   note,
			})
		}
	}

	return plan
}
