package compare_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"sheet-recon/core/recon"
	"sheet-recon/core/sheet"
	"sheet-recon/feature/compare"
	"sheet-recon/feature/compare/models"
)

// fakeStore is an in-memory storage.Client. Object keys are generated at
// runtime, so a canned mock cannot serve the download paths.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// failPrefix makes PutObject fail for matching keys.
	failPrefix string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return true, nil
}

func (s *fakeStore) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return nil
}

func (s *fakeStore) PutObject(ctx context.Context, bucket, name string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if s.failPrefix != "" && strings.HasPrefix(name, s.failPrefix) {
		return minio.UploadInfo{}, errors.New("storage write refused")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[name] = data
	return minio.UploadInfo{Bucket: bucket, Key: name, Size: int64(len(data))}, nil
}

func (s *fakeStore) GetObject(ctx context.Context, bucket, name string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[name]
	if !ok {
		return nil, errors.New("object not found: " + name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStore) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	go func() {
		defer close(ch)
		s.mu.Lock()
		defer s.mu.Unlock()
		for key := range s.objects {
			if strings.HasPrefix(key, opts.Prefix) {
				ch <- minio.ObjectInfo{Key: key}
			}
		}
	}()
	return ch
}

func (s *fakeStore) RemoveObject(ctx context.Context, bucket, name string, opts minio.RemoveObjectOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, name)
	return nil
}

func (s *fakeStore) RemoveObjects(ctx context.Context, bucket string, objectsCh <-chan minio.ObjectInfo, opts minio.RemoveObjectsOptions) <-chan minio.RemoveObjectError {
	errCh := make(chan minio.RemoveObjectError)
	go func() {
		defer close(errCh)
		for obj := range objectsCh {
			s.mu.Lock()
			delete(s.objects, obj.Key)
			s.mu.Unlock()
		}
	}()
	return errCh
}

func (s *fakeStore) count(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n
}

// buildWorkbook creates a single-sheet workbook from literal rows.
func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &rows[i]))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func newTestService(store *fakeStore) *compare.Service {
	return compare.NewService(store, "sheet-recon", zap.NewNop(), nil)
}

func uploadPair(t *testing.T, svc *compare.Service) (string, string) {
	t.Helper()
	ctx := context.Background()

	file1 := buildWorkbook(t, [][]interface{}{
		{"id", "name"},
		{"1", "A"},
		{"2", "B"},
	})
	file2 := buildWorkbook(t, [][]interface{}{
		{"id", "name"},
		{"2", "B2"},
		{"3", "C"},
	})

	up1, err := svc.Upload(ctx, "west.xlsx", file1)
	require.NoError(t, err)
	up2, err := svc.Upload(ctx, "east.xlsx", file2)
	require.NoError(t, err)
	return up1.FileID, up2.FileID
}

func TestServiceUpload(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	content := buildWorkbook(t, [][]interface{}{
		{"id", "name"},
		{"1", "A"},
	})
	resp, err := svc.Upload(context.Background(), "inventory.xlsx", content)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.FileID)
	assert.Equal(t, "inventory.xlsx", resp.OriginalName)
	require.Len(t, resp.Sheets, 1)
	assert.Equal(t, "Sheet1", resp.Sheets[0].Name)
	assert.Equal(t, []string{"id", "name"}, resp.Sheets[0].Columns)
	assert.Equal(t, 1, store.count("uploads/"))

	info, err := svc.FileInfo(context.Background(), resp.FileID)
	require.NoError(t, err)
	assert.Equal(t, resp.Sheets, info.Sheets)
}

func TestServiceUploadRejectsCorruptWorkbook(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.Upload(context.Background(), "broken.xlsx", []byte("not a workbook"))
	require.Error(t, err)

	var loadErr *sheet.LoadError
	assert.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 0, store.count("uploads/"))
}

func TestServiceCompareFlow(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	id1, id2 := uploadPair(t, svc)

	resp, err := svc.Compare(ctx, models.CompareRequest{
		File1ID: id1,
		File2ID: id2,
		Sheet1:  "Sheet1",
		Sheet2:  "Sheet1",
		Keys:    []string{"id"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ResultID)
	assert.True(t, resp.HasMarkedFiles)
	assert.Equal(t, 1, resp.Summary.OnlyInLeft)
	assert.Equal(t, 1, resp.Summary.OnlyInRight)
	assert.Equal(t, 1, resp.Summary.Common)
	assert.Equal(t, 1, resp.Summary.DiffRows)
	assert.Contains(t, resp.Result, "west.xlsx")
	assert.Contains(t, resp.Result, "east.xlsx")

	// Report download round-trips the stored content.
	content, filename, err := svc.DownloadReport(ctx, resp.ResultID)
	require.NoError(t, err)
	assert.Equal(t, resp.Result, string(content))
	assert.True(t, strings.HasPrefix(filename, "compare_result_"))
	assert.True(t, strings.HasSuffix(filename, ".txt"))

	// Both marked copies exist and open as workbooks.
	for fileNum, wantName := range map[int]string{
		1: "west (marked).xlsx",
		2: "east (marked).xlsx",
	} {
		marked, name, err := svc.DownloadMarked(ctx, resp.ResultID, fileNum)
		require.NoError(t, err)
		assert.Equal(t, wantName, name)

		f, err := excelize.OpenReader(bytes.NewReader(marked))
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}

	history, err := svc.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, resp.ResultID, history[0].ID)
	assert.Equal(t, "west.xlsx", history[0].File1Name)
	assert.True(t, history[0].HasMarkedFiles)
}

func TestServiceCompareMissingKeyColumn(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	id1, id2 := uploadPair(t, svc)

	_, err := svc.Compare(ctx, models.CompareRequest{
		File1ID: id1,
		File2ID: id2,
		Sheet1:  "Sheet1",
		Sheet2:  "Sheet1",
		Keys:    []string{"serial"},
	})
	require.Error(t, err)

	var keyErr *recon.MissingKeyColumnError
	require.ErrorAs(t, err, &keyErr)
	assert.Equal(t, "serial", keyErr.Column)

	// A failed comparison records nothing.
	history, err := svc.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.Equal(t, 0, store.count("results/"))
}

func TestServiceCompareUnknownFile(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Compare(context.Background(), models.CompareRequest{
		File1ID: "nope",
		File2ID: "nope",
		Sheet1:  "Sheet1",
		Sheet2:  "Sheet1",
		Keys:    []string{"id"},
	})
	assert.ErrorIs(t, err, compare.ErrNotFound)
}

func TestServiceCompareIncompleteRequest(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Compare(context.Background(), models.CompareRequest{
		File1ID: "a",
		File2ID: "b",
	})
	assert.ErrorIs(t, err, compare.ErrIncompleteRequest)
}

func TestServiceCompareSurvivesMarkedCopyFailure(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	ctx := context.Background()

	id1, id2 := uploadPair(t, svc)
	store.failPrefix = "marked/"

	resp, err := svc.Compare(ctx, models.CompareRequest{
		File1ID: id1,
		File2ID: id2,
		Sheet1:  "Sheet1",
		Sheet2:  "Sheet1",
		Keys:    []string{"id"},
	})
	require.NoError(t, err)
	assert.False(t, resp.HasMarkedFiles)

	// Report still downloads, marked copies do not.
	_, _, err = svc.DownloadReport(ctx, resp.ResultID)
	assert.NoError(t, err)
	_, _, err = svc.DownloadMarked(ctx, resp.ResultID, 1)
	assert.ErrorIs(t, err, compare.ErrNotFound)
}

func TestServiceDownloadUnknownResult(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, _, err := svc.DownloadReport(context.Background(), "nope")
	assert.ErrorIs(t, err, compare.ErrNotFound)
	_, _, err = svc.DownloadMarked(context.Background(), "nope", 1)
	assert.ErrorIs(t, err, compare.ErrNotFound)
}
