package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sheet-recon/core/logger"
	"sheet-recon/core/recon"
	"sheet-recon/core/sheet"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	compareSheet1 string
	compareSheet2 string
	compareKeys   []string
	compareOutput string
	compareMark   bool
)

// compareCmd performs a one-shot comparison of two local workbooks.
var compareCmd = &cobra.Command{
	Use:   "compare <file1.xlsx> <file2.xlsx>",
	Short: "Compare two Excel files by key columns",
	Long: `Compare two Excel worksheets row by row using one or more key columns.

Writes a text report, and optionally marked copies of both files with
unique rows highlighted and changed cells annotated.

Examples:
  # Compare by a single key column
  compare old.xlsx new.xlsx --keys id

  # Composite key, explicit sheets, marked copies
  compare old.xlsx new.xlsx --sheet1 Inventory --sheet2 Inventory --keys region,id --mark`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareSheet1, "sheet1", "Sheet1", "Worksheet name in the first file")
	compareCmd.Flags().StringVar(&compareSheet2, "sheet2", "Sheet1", "Worksheet name in the second file")
	compareCmd.Flags().StringSliceVar(&compareKeys, "keys", nil, "Key column names (comma-separated, required)")
	compareCmd.Flags().StringVar(&compareOutput, "output", "", "Report output path (default compare_result_<timestamp>.log)")
	compareCmd.Flags().BoolVar(&compareMark, "mark", false, "Also write marked copies of both files")
	_ = compareCmd.MarkFlagRequired("keys")

	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	l, err := logger.New(&logger.Config{Level: "info", Format: "console"})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	path1, path2 := args[0], args[1]

	content1, err := os.ReadFile(path1)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path1, err)
	}
	content2, err := os.ReadFile(path2)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path2, err)
	}

	data1, err := sheet.ReadSheet(content1, compareSheet1)
	if err != nil {
		return err
	}
	data2, err := sheet.ReadSheet(content2, compareSheet2)
	if err != nil {
		return err
	}

	left, err := recon.BuildTable(recon.SideLeft, data1.Columns, data1.Rows, compareKeys, recon.DefaultHeaderOffset)
	if err != nil {
		return err
	}
	right, err := recon.BuildTable(recon.SideRight, data2.Columns, data2.Rows, compareKeys, recon.DefaultHeaderOffset)
	if err != nil {
		return err
	}

	diff := recon.Reconcile(left, right)
	report := recon.RenderReport(diff, left, right, recon.ReportMeta{
		File1Name:  filepath.Base(path1),
		File2Name:  filepath.Base(path2),
		Sheet1:     compareSheet1,
		Sheet2:     compareSheet2,
		KeyColumns: compareKeys,
		ComparedAt: time.Now(),
	})

	output := compareOutput
	if output == "" {
		output = fmt.Sprintf("compare_result_%s.log", time.Now().Format("20060102_150405"))
	}
	if err := os.WriteFile(output, []byte(report), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	l.Info("Comparison complete",
		zap.String("report", output),
		zap.Int("only_in_file1", diff.Summary.OnlyInLeft),
		zap.Int("only_in_file2", diff.Summary.OnlyInRight),
		zap.Int("diff_rows", diff.Summary.DiffRows))

	if !compareMark {
		return nil
	}

	leftPlan, rightPlan := recon.PlanAnnotations(diff, left, right)
	marks := []struct {
		path      string
		sheetName string
		content   []byte
		plan      *recon.AnnotationPlan
	}{
		{path1, compareSheet1, content1, leftPlan},
		{path2, compareSheet2, content2, rightPlan},
	}

	for _, m := range marks {
		marked, err := sheet.ApplyMarks(m.content, m.sheetName, m.plan)
		if err != nil {
			l.Warn("Failed to generate marked copy", zap.String("file", m.path), zap.Error(err))
			continue
		}
		out := markedPath(m.path)
		if err := os.WriteFile(out, marked, 0o644); err != nil {
			return fmt.Errorf("failed to write marked copy: %w", err)
		}
		l.Info("Marked copy written", zap.String("file", out))
	}

	return nil
}

// markedPath derives the marked-copy filename next to the input file.
func markedPath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + " (marked).xlsx"
}
