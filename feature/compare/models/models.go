package models

import (
	"sheet-recon/core/recon"
	"sheet-recon/core/sheet"
)

// UploadResponse is returned after a workbook upload: the id to reference
// the file by, plus its sheet/column layout for key selection.
type UploadResponse struct {
	// FileID is the server-assigned upload identifier.
	FileID string `json:"file_id"`

	// OriginalName is the filename the client uploaded.
	OriginalName string `json:"original_name"`

	// Sheets lists each worksheet and its header columns.
	Sheets []sheet.SheetInfo `json:"sheets"`
}

// CompareRequest selects the two uploaded files, the worksheet on each
// side, and the composite key columns.
type CompareRequest struct {
	File1ID string   `json:"file1_id"`
	File2ID string   `json:"file2_id"`
	Sheet1  string   `json:"sheet1"`
	Sheet2  string   `json:"sheet2"`
	Keys    []string `json:"keys"`
}

// CompareResponse carries the comparison outcome.
type CompareResponse struct {
	// Result is the rendered text report.
	Result string `json:"result"`

	// ResultID references the stored report and marked copies.
	ResultID string `json:"result_id"`

	// HasMarkedFiles reports whether marked copies were generated. Marked
	// copy generation is best-effort and may fail independently.
	HasMarkedFiles bool `json:"has_marked_files"`

	// Summary provides the aggregate diff counts.
	Summary recon.Summary `json:"summary"`
}

// FileInfoResponse describes a previously uploaded workbook.
type FileInfoResponse struct {
	FileID       string            `json:"file_id"`
	OriginalName string            `json:"original_name"`
	Sheets       []sheet.SheetInfo `json:"sheets"`
}
