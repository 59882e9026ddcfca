package compare

import (
	"context"
	"errors"
	"sort"
	"sync"

	"gorm.io/gorm"

	"sheet-recon/feature/compare/models"
)

// ErrNotFound is returned by registry lookups for unknown ids.
var ErrNotFound = errors.New("registry: not found")

// Registry persists upload and comparison metadata. The serving layer owns
// one registry per process; the reconciliation core never touches it.
type Registry interface {
	// SaveUpload records an uploaded workbook.
	SaveUpload(ctx context.Context, up *models.Upload) error
	// GetUpload looks up an upload by id.
	GetUpload(ctx context.Context, id string) (*models.Upload, error)
	// SaveComparison records a completed comparison.
	SaveComparison(ctx context.Context, cmp *models.Comparison) error
	// GetComparison looks up a comparison by result id.
	GetComparison(ctx context.Context, id string) (*models.Comparison, error)
	// ListComparisons returns the most recent comparisons, newest first.
	ListComparisons(ctx context.Context, limit int) ([]models.Comparison, error)
}

// gormRegistry stores registry rows in the configured database.
type gormRegistry struct {
	db *gorm.DB
}

// NewGormRegistry creates a database-backed registry, migrating the schema.
func NewGormRegistry(db *gorm.DB) (Registry, error) {
	if err := db.AutoMigrate(&models.Upload{}, &models.Comparison{}); err != nil {
		return nil, err
	}
	return &gormRegistry{db: db}, nil
}

func (r *gormRegistry) SaveUpload(ctx context.Context, up *models.Upload) error {
	return r.db.WithContext(ctx).Create(up).Error
}

func (r *gormRegistry) GetUpload(ctx context.Context, id string) (*models.Upload, error) {
	var up models.Upload
	err := r.db.WithContext(ctx).First(&up, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &up, nil
}

func (r *gormRegistry) SaveComparison(ctx context.Context, cmp *models.Comparison) error {
	return r.db.WithContext(ctx).Create(cmp).Error
}

func (r *gormRegistry) GetComparison(ctx context.Context, id string) (*models.Comparison, error) {
	var cmp models.Comparison
	err := r.db.WithContext(ctx).First(&cmp, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cmp, nil
}

func (r *gormRegistry) ListComparisons(ctx context.Context, limit int) ([]models.Comparison, error) {
	var cmps []models.Comparison
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&cmps).Error
	if err != nil {
		return nil, err
	}
	return cmps, nil
}

// memoryRegistry is the fallback when no database is configured. Entries
// live for the process lifetime, matching the original single-user tool.
type memoryRegistry struct {
	mu          sync.RWMutex
	uploads     map[string]models.Upload
	comparisons map[string]models.Comparison
}

// NewMemoryRegistry creates an in-memory registry.
func NewMemoryRegistry() Registry {
	return &memoryRegistry{
		uploads:     make(map[string]models.Upload),
		comparisons: make(map[string]models.Comparison),
	}
}

func (r *memoryRegistry) SaveUpload(ctx context.Context, up *models.Upload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads[up.ID] = *up
	return nil
}

func (r *memoryRegistry) GetUpload(ctx context.Context, id string) (*models.Upload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	up, ok := r.uploads[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &up, nil
}

func (r *memoryRegistry) SaveComparison(ctx context.Context, cmp *models.Comparison) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comparisons[cmp.ID] = *cmp
	return nil
}

func (r *memoryRegistry) GetComparison(ctx context.Context, id string) (*models.Comparison, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmp, ok := r.comparisons[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &cmp, nil
}

func (r *memoryRegistry) ListComparisons(ctx context.Context, limit int) ([]models.Comparison, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmps := make([]models.Comparison, 0, len(r.comparisons))
	for _, cmp := range r.comparisons {
		cmps = append(cmps, cmp)
	}
	sort.Slice(cmps, func(i, j int) bool {
		return cmps[i].CreatedAt.After(cmps[j].CreatedAt)
	})
	if limit > 0 && len(cmps) > limit {
		cmps = cmps[:limit]
	}
	return cmps, nil
}
