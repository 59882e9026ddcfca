package recon

import "sort"

// Reconcile compares two key-indexed tables and produces a DiffResult.
//
// Keys are partitioned with pure set algebra; common rows are compared
// column by column over the columns present in both tables, using the
// first occurrence of each key per side. Missing cells and type oddities
// are reported as diffs, never as errors, so Reconcile cannot fail.
// Output slices are sorted for deterministic rendering.
func Reconcile(left, right *Table) *DiffResult {
	diff := &DiffResult{
		OnlyInLeft:  []string{},
		OnlyInRight: []string{},
		CommonKeys:  []string{},
		RowDiffs:    make(map[string][]FieldDiff),
	}

	for key := range left.KeyToFirstRow {
		if _, ok := right.KeyToFirstRow[key]; ok {
			diff.CommonKeys = append(diff.CommonKeys, key)
		} else {
			diff.OnlyInLeft = append(diff.OnlyInLeft, key)
		}
	}
	for key := range right.KeyToFirstRow {
		if _, ok := left.KeyToFirstRow[key]; !ok {
			diff.OnlyInRight = append(diff.OnlyInRight, key)
		}
	}
	sort.Strings(diff.OnlyInLeft)
	sort.Strings(diff.OnlyInRight)
	sort.Strings(diff.CommonKeys)

	// Columns shared by both sides, in left-table order.
	commonColumns := make([]string, 0, len(left.Columns))
	for _, col := range left.Columns {
		if _, ok := right.ColumnIndex(col); ok {
			commonColumns = append(commonColumns, col)
		}
	}

	for _, key := range diff.CommonKeys {
		lrec, _ := left.FirstRecord(key)
		rrec, _ := right.FirstRecord(key)

		var fields []FieldDiff
		for _, col := range commonColumns {
			lv := lrec.Values[col]
			rv := rrec.Values[col]
			if valuesEqual(lv, rv) {
				continue
			}
			fields = append(fields, FieldDiff{Column: col, Left: lv, Right: rv})
		}
		if len(fields) > 0 {
			diff.RowDiffs[key] = fields
		}
	}

	for _, col := range left.Columns {
		if _, ok := right.ColumnIndex(col); !ok {
			diff.OnlyInLeftColumns = append(diff.OnlyInLeftColumns, col)
		}
	}
	for _, col := range right.Columns {
		if _, ok := left.ColumnIndex(col); !ok {
			diff.OnlyInRightColumns = append(diff.OnlyInRightColumns, col)
		}
	}
	sort.Strings(diff.OnlyInLeftColumns)
	sort.Strings(diff.OnlyInRightColumns)

	diff.Summary = Summary{
		LeftRows:     len(left.Records),
		RightRows:    len(right.Records),
		LeftColumns:  len(left.Columns),
		RightColumns: len(right.Columns),
		OnlyInLeft:   len(diff.OnlyInLeft),
		OnlyInRight:  len(diff.OnlyInRight),
		Common:       len(diff.CommonKeys),
		DiffRows:     len(diff.RowDiffs),
	}

	return diff
}

// valuesEqual applies null-aware equality: two blank cells are equal, a
// blank against a value is a difference, otherwise plain string equality
// over the canonical forms.
func valuesEqual(a, b string) bool {
	if a == "" && b == "" {
		return true
	}
	return a == b
}
