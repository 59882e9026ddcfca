package recon

// KeySeparator joins key-column values into a composite key. Chosen to be
// unlikely to appear in real data; rows whose key cells contain it can
// collide, which callers accept.
const KeySeparator = "||"

// DefaultHeaderOffset maps a 0-based data row position to its 1-based
// spreadsheet row number when row 1 is the header.
const DefaultHeaderOffset = 2

// Side identifies which input table a record, error, or annotation plan
// belongs to.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Label returns the human-facing name used in reports and cell notes.
func (s Side) Label() string {
	if s == SideRight {
		return "file 2"
	}
	return "file 1"
}

// Other returns the opposite side.
func (s Side) Other() Side {
	if s == SideRight {
		return SideLeft
	}
	return SideRight
}

// Record is one worksheet row with its derived composite key and original
// spreadsheet row number. Values are canonical strings; the empty string
// represents a null/blank cell. Immutable once built.
type Record struct {
	// Key is the composite key derived from the key columns.
	Key string

	// RowNum is the 1-based spreadsheet row number (position + header offset).
	RowNum int

	// Values maps column name to the canonical cell value.
	Values map[string]string
}

// Table is a key-indexed view over one worksheet's rows. Built once by
// BuildTable and read-only thereafter.
type Table struct {
	// Side marks which input this table was built from.
	Side Side

	// Columns holds the column names in source order.
	Columns []string

	// KeyColumns holds the key-column names in the order used for key
	// derivation. Callers must pass the same order for both tables.
	KeyColumns []string

	// Records holds every source row, duplicates included, in source order.
	Records []Record

	// KeyToFirstRow maps each composite key to the spreadsheet row number of
	// its first occurrence. Later duplicates are not recorded here.
	KeyToFirstRow map[string]int

	firstByKey map[string]*Record
	colIndex   map[string]int
}

// FirstRecord returns the first-occurrence record for a key.
func (t *Table) FirstRecord(key string) (*Record, bool) {
	r, ok := t.firstByKey[key]
	return r, ok
}

// ColumnIndex returns the 1-based position of a column in the source sheet,
// or false when the table has no such column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.colIndex[name]
	return i, ok
}

// FieldDiff records one differing column of a common row.
type FieldDiff struct {
	// Column is the column name.
	Column string `json:"column"`

	// Left is the canonical value on the left side.
	Left string `json:"left"`

	// Right is the canonical value on the right side.
	Right string `json:"right"`
}

// DiffResult is the output of one reconciliation. The three key slices
// partition the union of both tables' key sets exactly and are sorted
// lexicographically for deterministic output.
type DiffResult struct {
	// OnlyInLeft holds keys present only in the left table.
	OnlyInLeft []string `json:"only_in_left"`

	// OnlyInRight holds keys present only in the right table.
	OnlyInRight []string `json:"only_in_right"`

	// CommonKeys holds keys present in both tables.
	CommonKeys []string `json:"common_keys"`

	// RowDiffs maps a common key to its differing columns, in left-table
	// column order. Keys with no differing column are absent.
	RowDiffs map[string][]FieldDiff `json:"row_diffs"`

	// OnlyInLeftColumns holds column names present only in the left table.
	OnlyInLeftColumns []string `json:"only_in_left_columns"`

	// OnlyInRightColumns holds column names present only in the right table.
	OnlyInRightColumns []string `json:"only_in_right_columns"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a comparison.
type Summary struct {
	// LeftRows is the number of data rows in the left table.
	LeftRows int `json:"left_rows"`

	// RightRows is the number of data rows in the right table.
	RightRows int `json:"right_rows"`

	// LeftColumns is the number of columns in the left table.
	LeftColumns int `json:"left_columns"`

	// RightColumns is the number of columns in the right table.
	RightColumns int `json:"right_columns"`

	// OnlyInLeft counts keys present only in the left table.
	OnlyInLeft int `json:"only_in_left"`

	// OnlyInRight counts keys present only in the right table.
	OnlyInRight int `json:"only_in_right"`

	// Common counts keys present in both tables.
	Common int `json:"common"`

	// DiffRows counts common keys with at least one differing column.
	DiffRows int `json:"diff_rows"`
}
