package compare

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sheet-recon/core/recon"
	"sheet-recon/core/sheet"
	"sheet-recon/core/storage"
	"sheet-recon/feature/compare/models"
)

const (
	uploadPrefix = "uploads/"
	resultPrefix = "results/"
	markedPrefix = "marked/"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	workbookCacheTTL = 5 * time.Minute
)

// ErrIncompleteRequest is returned when a compare request is missing
// required parameters.
var ErrIncompleteRequest = errors.New("missing required compare parameters")

// Service handles upload, comparison, and download operations.
type Service struct {
	client   storage.Client
	bucket   string
	logger   *zap.Logger
	registry Registry
	cache    *workbookCache
}

// NewService creates a new compare service. With a nil database the
// registry falls back to in-memory storage, matching the original
// single-user tool.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB) *Service {
	var reg Registry
	if db != nil {
		r, err := NewGormRegistry(db)
		if err != nil {
			logger.Warn("Registry migration failed, using in-memory registry", zap.Error(err))
			reg = NewMemoryRegistry()
		} else {
			reg = r
		}
	} else {
		reg = NewMemoryRegistry()
	}

	return &Service{
		client:   client,
		bucket:   bucket,
		logger:   logger,
		registry: reg,
		cache:    newWorkbookCache(workbookCacheTTL),
	}
}

// Upload stores a workbook and returns its id plus sheet/column layout.
// The workbook is inspected before storing so a malformed file is rejected
// without leaving an orphan object behind.
func (s *Service) Upload(ctx context.Context, originalName string, content []byte) (*models.UploadResponse, error) {
	infos, err := sheet.Inspect(content)
	if err != nil {
		return nil, err
	}

	fileID := uuid.NewString()
	objectKey := uploadPrefix + fileID + ".xlsx"

	_, err = s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: xlsxContentType})
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	if err := s.registry.SaveUpload(ctx, &models.Upload{
		ID:           fileID,
		OriginalName: originalName,
		ObjectKey:    objectKey,
		CreatedAt:    time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	s.cache.put(fileID, infos)

	return &models.UploadResponse{
		FileID:       fileID,
		OriginalName: originalName,
		Sheets:       infos,
	}, nil
}

// FileInfo returns the sheet/column layout of a stored upload, served from
// the workbook cache when fresh.
func (s *Service) FileInfo(ctx context.Context, fileID string) (*models.FileInfoResponse, error) {
	up, err := s.registry.GetUpload(ctx, fileID)
	if err != nil {
		return nil, err
	}

	infos, err := s.cache.get(fileID, func() ([]sheet.SheetInfo, error) {
		content, err := s.fetch(ctx, up.ObjectKey)
		if err != nil {
			return nil, err
		}
		return sheet.Inspect(content)
	})
	if err != nil {
		return nil, err
	}

	return &models.FileInfoResponse{
		FileID:       up.ID,
		OriginalName: up.OriginalName,
		Sheets:       infos,
	}, nil
}

// Compare runs a full comparison between two stored uploads: builds both
// tables, reconciles them, stores the text report, and best-effort
// generates the two marked copies.
func (s *Service) Compare(ctx context.Context, req models.CompareRequest) (*models.CompareResponse, error) {
	if req.File1ID == "" || req.File2ID == "" || req.Sheet1 == "" || req.Sheet2 == "" || len(req.Keys) == 0 {
		return nil, ErrIncompleteRequest
	}

	up1, err := s.registry.GetUpload(ctx, req.File1ID)
	if err != nil {
		return nil, err
	}
	up2, err := s.registry.GetUpload(ctx, req.File2ID)
	if err != nil {
		return nil, err
	}

	content1, err := s.fetch(ctx, up1.ObjectKey)
	if err != nil {
		return nil, err
	}
	content2, err := s.fetch(ctx, up2.ObjectKey)
	if err != nil {
		return nil, err
	}

	data1, err := sheet.ReadSheet(content1, req.Sheet1)
	if err != nil {
		return nil, err
	}
	data2, err := sheet.ReadSheet(content2, req.Sheet2)
	if err != nil {
		return nil, err
	}

	left, err := recon.BuildTable(recon.SideLeft, data1.Columns, data1.Rows, req.Keys, recon.DefaultHeaderOffset)
	if err != nil {
		return nil, err
	}
	right, err := recon.BuildTable(recon.SideRight, data2.Columns, data2.Rows, req.Keys, recon.DefaultHeaderOffset)
	if err != nil {
		return nil, err
	}

	diff := recon.Reconcile(left, right)
	report := recon.RenderReport(diff, left, right, recon.ReportMeta{
		File1Name:  up1.OriginalName,
		File2Name:  up2.OriginalName,
		Sheet1:     req.Sheet1,
		Sheet2:     req.Sheet2,
		KeyColumns: req.Keys,
		ComparedAt: time.Now(),
	})

	resultID := uuid.NewString()
	_, err = s.client.PutObject(ctx, s.bucket, resultPrefix+resultID+".txt",
		strings.NewReader(report), int64(len(report)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	hasMarked := s.storeMarkedCopies(ctx, resultID, diff, left, right, req, content1, content2)

	if err := s.registry.SaveComparison(ctx, &models.Comparison{
		ID:             resultID,
		File1ID:        up1.ID,
		File2ID:        up2.ID,
		File1Name:      up1.OriginalName,
		File2Name:      up2.OriginalName,
		Sheet1:         req.Sheet1,
		Sheet2:         req.Sheet2,
		KeyColumns:     strings.Join(req.Keys, ","),
		OnlyInFile1:    diff.Summary.OnlyInLeft,
		OnlyInFile2:    diff.Summary.OnlyInRight,
		CommonRows:     diff.Summary.Common,
		DiffRows:       diff.Summary.DiffRows,
		HasMarkedFiles: hasMarked,
		CreatedAt:      time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("failed to record comparison: %w", err)
	}

	return &models.CompareResponse{
		Result:         report,
		ResultID:       resultID,
		HasMarkedFiles: hasMarked,
		Summary:        diff.Summary,
	}, nil
}

// storeMarkedCopies generates and stores both marked copies. Marking is
// best-effort: a failure logs a warning and the comparison still succeeds
// without marked files.
func (s *Service) storeMarkedCopies(ctx context.Context, resultID string, diff *recon.DiffResult, left, right *recon.Table, req models.CompareRequest, content1, content2 []byte) bool {
	leftPlan, rightPlan := recon.PlanAnnotations(diff, left, right)

	sides := []struct {
		num     int
		sheet   string
		content []byte
		plan    *recon.AnnotationPlan
	}{
		{1, req.Sheet1, content1, leftPlan},
		{2, req.Sheet2, content2, rightPlan},
	}

	for _, side := range sides {
		marked, err := sheet.ApplyMarks(side.content, side.sheet, side.plan)
		if err != nil {
			s.logger.Warn("Failed to generate marked copy",
				zap.Int("file_num", side.num), zap.Error(err))
			return false
		}
		key := fmt.Sprintf("%s%s_%d.xlsx", markedPrefix, resultID, side.num)
		_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(marked), int64(len(marked)),
			minio.PutObjectOptions{ContentType: xlsxContentType})
		if err != nil {
			s.logger.Warn("Failed to store marked copy",
				zap.Int("file_num", side.num), zap.Error(err))
			return false
		}
	}
	return true
}

// DownloadReport returns the stored report content and a timestamped
// download filename.
func (s *Service) DownloadReport(ctx context.Context, resultID string) ([]byte, string, error) {
	if _, err := s.registry.GetComparison(ctx, resultID); err != nil {
		return nil, "", err
	}

	content, err := s.fetch(ctx, resultPrefix+resultID+".txt")
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("compare_result_%s.txt", time.Now().Format("20060102_150405"))
	return content, filename, nil
}

// DownloadMarked returns a marked copy (fileNum 1 or 2) and its download
// filename derived from the original upload name.
func (s *Service) DownloadMarked(ctx context.Context, resultID string, fileNum int) ([]byte, string, error) {
	cmp, err := s.registry.GetComparison(ctx, resultID)
	if err != nil {
		return nil, "", err
	}
	if !cmp.HasMarkedFiles {
		return nil, "", ErrNotFound
	}

	key := fmt.Sprintf("%s%s_%d.xlsx", markedPrefix, resultID, fileNum)
	content, err := s.fetch(ctx, key)
	if err != nil {
		return nil, "", err
	}

	name := cmp.File1Name
	if fileNum == 2 {
		name = cmp.File2Name
	}
	return content, trimWorkbookExt(name) + " (marked).xlsx", nil
}

// History returns the most recent comparisons, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]models.Comparison, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.registry.ListComparisons(ctx, limit)
}

// fetch downloads a whole object from storage.
func (s *Service) fetch(ctx context.Context, objectKey string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", objectKey, err)
	}
	defer obj.Close()

	content, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", objectKey, err)
	}
	return content, nil
}

// trimWorkbookExt strips a trailing .xlsx or .xls from a display name.
func trimWorkbookExt(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return name[:len(name)-5]
	case strings.HasSuffix(lower, ".xls"):
		return name[:len(name)-4]
	}
	return name
}
