// Package compare implements the workbook comparison feature.
//
// It provides the end-to-end flow for comparing two Excel worksheets by
// composite key columns:
//  1. Upload: workbooks are inspected, stored in object storage, and their
//     sheet/column layout is returned for key selection.
//  2. Compare: both sheets are loaded, reconciled by key, and the text
//     report plus two annotated ("marked") copies are stored.
//  3. Download: the report and the marked copies are served with
//     user-facing filenames.
//
// # Components
//
//   - Service: Orchestrates uploads, comparisons, and downloads against
//     object storage and the registry.
//   - Registry: Persists upload and comparison records (GORM-backed, with
//     an in-memory fallback when no database is configured).
//   - Handler: Exposes the HTTP endpoints.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - POST /upload : Upload a workbook, get its id and sheet layout.
//   - POST /compare : Run a comparison between two uploads.
//   - GET  /download/:result_id : Download the text report.
//   - GET  /download/:result_id/marked/:file_num : Download a marked copy.
//   - GET  /files/:file_id : Get the sheet layout of an upload.
//   - GET  /history : List recent comparisons.
package compare
