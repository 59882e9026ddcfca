package recon

import "strings"

// BuildTable builds a key-indexed table from one worksheet's raw rows.
//
// columns holds the header names in source order; each row holds cell values
// aligned with columns (short rows are padded with empty values). Cell values
// must already be canonical strings so numeric and text representations of
// the same key agree across both tables; core/sheet guarantees that.
//
// Every keyColumn must exist in columns, otherwise BuildTable returns a
// *MissingKeyColumnError naming the side and column and derives nothing.
// headerOffset maps row position 0 to its spreadsheet row number
// (DefaultHeaderOffset when row 1 is the header).
func BuildTable(side Side, columns []string, rows [][]string, keyColumns []string, headerOffset int) (*Table, error) {
	colIndex := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, dup := colIndex[name]; !dup {
			colIndex[name] = i + 1
		}
	}

	// Fail fast before any key derivation.
	for _, kc := range keyColumns {
		if _, ok := colIndex[kc]; !ok {
			return nil, &MissingKeyColumnError{Side: side, Column: kc}
		}
	}

	t := &Table{
		Side:          side,
		Columns:       append([]string(nil), columns...),
		KeyColumns:    append([]string(nil), keyColumns...),
		Records:       make([]Record, 0, len(rows)),
		KeyToFirstRow: make(map[string]int, len(rows)),
		firstByKey:    make(map[string]*Record, len(rows)),
		colIndex:      colIndex,
	}

	for pos, row := range rows {
		values := make(map[string]string, len(columns))
		for i, name := range columns {
			if i < len(row) {
				values[name] = row[i]
			} else {
				values[name] = ""
			}
		}

		parts := make([]string, len(keyColumns))
		for i, kc := range keyColumns {
			parts[i] = values[kc]
		}

		rec := Record{
			Key:    strings.Join(parts, KeySeparator),
			RowNum: pos + headerOffset,
			Values: values,
		}
		t.Records = append(t.Records, rec)

		// First occurrence wins for row anchoring and comparison.
		if _, seen := t.KeyToFirstRow[rec.Key]; !seen {
			t.KeyToFirstRow[rec.Key] = rec.RowNum
			t.firstByKey[rec.Key] = &t.Records[len(t.Records)-1]
		}
	}

	return t, nil
}
