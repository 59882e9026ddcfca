// Package recon implements the row and column reconciliation core for
// comparing two tabular worksheets by a composite key.
//
// The package is a pure in-memory computation with no I/O, no logging, and
// no shared state: every comparison is a function of its two input tables
// plus the key-column list. Reading worksheets and writing marked copies are
// collaborator concerns (see core/sheet).
//
// # Components
//
// 1. Table builder: wraps a loaded worksheet's rows as ordered records, each
// carrying a derived composite key and its original spreadsheet row number.
// Key columns are validated up front; a missing key column fails the build
// before any key derivation happens.
//
// 2. Engine: partitions the union of both tables' composite keys into
// left-only, right-only, and common sets, and compares common rows column by
// column with null-aware equality. Data irregularities are diffs, never
// errors.
//
// 3. Annotation mapper: translates a DiffResult into declarative cell-level
// mark instructions (fills, notes) per side. Applying the marks to a real
// workbook is the styling collaborator's job.
//
// 4. Report renderer: produces the human-facing text report.
//
// # Duplicate keys
//
// When several rows share a composite key, the first occurrence by source
// order is the one anchored for annotation and used for column comparison.
// Later duplicates stay in the table but are otherwise ignored.
//
// # Usage Example
//
//	left, err := recon.BuildTable(recon.SideLeft, cols1, rows1, keys, recon.DefaultHeaderOffset)
//	right, err := recon.BuildTable(recon.SideRight, cols2, rows2, keys, recon.DefaultHeaderOffset)
//	diff := recon.Reconcile(left, right)
//	leftPlan, rightPlan := recon.PlanAnnotations(diff, left, right)
package recon
