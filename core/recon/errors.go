package recon

import "fmt"

// MissingKeyColumnError reports a required key column absent from one side's
// column set. BuildTable returns it before deriving any key.
type MissingKeyColumnError struct {
	// Side is the table the column was missing from.
	Side Side

	// Column is the missing key-column name.
	Column string
}

func (e *MissingKeyColumnError) Error() string {
	return fmt.Sprintf("key column %q missing from %s table", e.Column, e.Side)
}
