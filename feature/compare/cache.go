package compare

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"sheet-recon/core/sheet"
)

// workbookCache holds sheet/column layouts of stored uploads so repeated
// lookups don't re-download and re-parse the workbook. Owned by one Service
// instance; there is no process-wide cache. Singleflight collapses
// concurrent rebuilds of the same entry.
type workbookCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	sf      singleflight.Group
}

type cacheEntry struct {
	infos []sheet.SheetInfo
	built time.Time
}

func (e *cacheEntry) expired(ttl time.Duration) bool {
	if ttl == 0 {
		return true
	}
	return time.Since(e.built) > ttl
}

func newWorkbookCache(ttl time.Duration) *workbookCache {
	return &workbookCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
	}
}

// get returns the cached layout for a file id, building and storing it via
// build when missing or expired.
func (c *workbookCache) get(fileID string, build func() ([]sheet.SheetInfo, error)) ([]sheet.SheetInfo, error) {
	c.mu.RLock()
	entry, ok := c.entries[fileID]
	c.mu.RUnlock()
	if ok && !entry.expired(c.ttl) {
		return entry.infos, nil
	}

	result, err, _ := c.sf.Do(fileID, func() (any, error) {
		infos, err := build()
		if err != nil {
			return nil, err
		}
		c.put(fileID, infos)
		return infos, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]sheet.SheetInfo), nil
}

// put stores a layout, used both by get and to prime the cache at upload
// time when the workbook bytes are already in hand.
func (c *workbookCache) put(fileID string, infos []sheet.SheetInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fileID] = &cacheEntry{infos: infos, built: time.Now()}
}
