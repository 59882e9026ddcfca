package sheet

import (
	"github.com/thedatashed/xlsxreader"
)

// SheetInfo describes one worksheet for schema introspection: its name and
// the header-row column names in source order.
type SheetInfo struct {
	// Name is the worksheet name.
	Name string `json:"name"`

	// Columns holds the header row values.
	Columns []string `json:"columns"`
}

// Inspect enumerates a workbook's sheets and their header columns. Only the
// first row of each sheet is read, streamed via xlsxreader rather than
// materializing the whole workbook.
func Inspect(content []byte) ([]SheetInfo, error) {
	x, err := xlsxreader.NewReader(content)
	if err != nil {
		return nil, &LoadError{Name: "workbook", Err: err}
	}

	infos := make([]SheetInfo, 0, len(x.Sheets))
	for _, name := range x.Sheets {
		infos = append(infos, SheetInfo{
			Name:    name,
			Columns: headerRow(x, name),
		})
	}
	return infos, nil
}

// headerRow streams the first row of a sheet and places each cell by its
// column position, leaving gaps blank.
func headerRow(x *xlsxreader.XlsxFile, sheetName string) []string {
	rows := x.ReadRows(sheetName)
	for row := range rows {
		if row.Error != nil {
			break
		}

		columns := []string{}
		for _, cell := range row.Cells {
			idx := cell.ColumnIndex()
			for len(columns) <= idx {
				columns = append(columns, "")
			}
			columns[idx] = cell.Value
		}

		// Drain the remaining rows so the reader goroutine can finish.
		go func() {
			for range rows {
			}
		}()

		return columns
	}
	return []string{}
}
