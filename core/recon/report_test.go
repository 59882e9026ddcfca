package recon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderReport(t *testing.T) {
	left := mustTable(t, SideLeft, []string{"id", "name"}, [][]string{
		{"1", "A"},
		{"2", "B"},
	}, []string{"id"})
	right := mustTable(t, SideRight, []string{"id", "name"}, [][]string{
		{"2", "B2"},
		{"3", "C"},
	}, []string{"id"})

	diff := Reconcile(left, right)
	report := RenderReport(diff, left, right, ReportMeta{
		File1Name:  "orders_v1.xlsx",
		File2Name:  "orders_v2.xlsx",
		Sheet1:     "Sheet1",
		Sheet2:     "Sheet1",
		KeyColumns: []string{"id"},
		ComparedAt: time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
	})

	assert.Contains(t, report, "File 1: orders_v1.xlsx (sheet: Sheet1)")
	assert.Contains(t, report, "Compared at: 2026-08-31 10:00:00")
	assert.Contains(t, report, "Key columns: [id]")
	assert.Contains(t, report, "Rows only in file 1: 1")
	assert.Contains(t, report, "[file 1 row 2] key: 1")
	assert.Contains(t, report, "[file 2 row 3] key: 3")
	assert.Contains(t, report, "key: 2 [file 1 row 3 vs file 2 row 2]")
	assert.Contains(t, report, "column [name]: file 1='B' vs file 2='B2'")
	assert.Contains(t, report, "Comparison finished")
}

func TestRenderReport_NoDifferences(t *testing.T) {
	columns := []string{"id", "name"}
	rows := [][]string{{"1", "A"}}

	left := mustTable(t, SideLeft, columns, rows, []string{"id"})
	right := mustTable(t, SideRight, columns, rows, []string{"id"})

	diff := Reconcile(left, right)
	report := RenderReport(diff, left, right, ReportMeta{Sheet1: "S1", Sheet2: "S2", KeyColumns: []string{"id"}})

	assert.Contains(t, report, "no value differences")
	assert.NotContains(t, report, "Rows only in file 1:\n")
	assert.NotContains(t, report, "Column level differences")
	assert.NotContains(t, report, "Compared at")
}

func TestRenderReport_ColumnDifferences(t *testing.T) {
	left := mustTable(t, SideLeft, []string{"id", "extra"}, [][]string{{"1", "x"}}, []string{"id"})
	right := mustTable(t, SideRight, []string{"id"}, [][]string{{"1"}}, []string{"id"})

	diff := Reconcile(left, right)
	report := RenderReport(diff, left, right, ReportMeta{KeyColumns: []string{"id"}})

	assert.Contains(t, report, "Columns only in file 1: [extra]")
	assert.NotContains(t, report, "Columns only in file 2")
}

func TestRenderReport_Deterministic(t *testing.T) {
	left := mustTable(t, SideLeft, []string{"id", "v"}, [][]string{
		{"b", "1"}, {"a", "2"}, {"c", "3"},
	}, []string{"id"})
	right := mustTable(t, SideRight, []string{"id", "v"}, [][]string{
		{"c", "9"}, {"d", "4"},
	}, []string{"id"})

	diff := Reconcile(left, right)
	meta := ReportMeta{KeyColumns: []string{"id"}}

	assert.Equal(t, RenderReport(diff, left, right, meta), RenderReport(diff, left, right, meta))
}
