package sheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Data is one decoded worksheet: header names in source order plus the data
// rows beneath them. Row cells align with Columns; trailing blanks may be
// absent (the table builder pads them).
type Data struct {
	// Columns holds the header row values in source order.
	Columns []string

	// Rows holds the data rows as formatted cell strings.
	Rows [][]string
}

// LoadError reports that a workbook or worksheet could not be decoded at
// all. The comparison never starts when either side fails to load.
type LoadError struct {
	// Name is the sheet (or file) that failed to load.
	Name string

	// Err is the underlying decode error.
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %q: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ReadSheet decodes one worksheet from xlsx file content into columns and
// rows of canonical strings. The first row is the header; an empty sheet
// yields empty columns and no rows.
func ReadSheet(content []byte, sheetName string) (*Data, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, &LoadError{Name: sheetName, Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, &LoadError{Name: sheetName, Err: err}
	}

	if len(rows) == 0 {
		return &Data{Columns: []string{}, Rows: [][]string{}}, nil
	}

	return &Data{
		Columns: rows[0],
		Rows:    rows[1:],
	}, nil
}
