package compare

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheet-recon/core/sheet"
)

func TestWorkbookCachePrimedEntryServedWithoutBuild(t *testing.T) {
	c := newWorkbookCache(time.Minute)
	infos := []sheet.SheetInfo{{Name: "Sheet1", Columns: []string{"id", "name"}}}
	c.put("file-1", infos)

	got, err := c.get("file-1", func() ([]sheet.SheetInfo, error) {
		t.Fatal("build should not run for a fresh entry")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, infos, got)
}

func TestWorkbookCacheRebuildsExpiredEntry(t *testing.T) {
	c := newWorkbookCache(time.Nanosecond)
	c.put("file-1", []sheet.SheetInfo{{Name: "Stale"}})
	time.Sleep(time.Millisecond)

	var builds int32
	got, err := c.get("file-1", func() ([]sheet.SheetInfo, error) {
		atomic.AddInt32(&builds, 1)
		return []sheet.SheetInfo{{Name: "Fresh"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Fresh", got[0].Name)
	assert.Equal(t, int32(1), builds)
}

func TestWorkbookCacheBuildError(t *testing.T) {
	c := newWorkbookCache(time.Minute)

	_, err := c.get("file-1", func() ([]sheet.SheetInfo, error) {
		return nil, errors.New("fetch failed")
	})
	assert.Error(t, err)

	// A failed build leaves no entry behind.
	var builds int32
	_, err = c.get("file-1", func() ([]sheet.SheetInfo, error) {
		atomic.AddInt32(&builds, 1)
		return []sheet.SheetInfo{{Name: "Sheet1"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), builds)
}

func TestWorkbookCacheCollapsesConcurrentBuilds(t *testing.T) {
	c := newWorkbookCache(time.Minute)

	var builds int32
	build := func() ([]sheet.SheetInfo, error) {
		atomic.AddInt32(&builds, 1)
		time.Sleep(20 * time.Millisecond)
		return []sheet.SheetInfo{{Name: "Sheet1"}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.get("file-1", build)
			assert.NoError(t, err)
			assert.Len(t, got, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
}
