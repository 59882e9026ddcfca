package compare_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"sheet-recon/core/database"
	"sheet-recon/feature/compare"
	"sheet-recon/feature/compare/models"
)

func setupSQLiteRegistry(t *testing.T) compare.Registry {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver: "sqlite",
		Name:   ":memory:",
	})
	require.NoError(t, err)

	reg, err := compare.NewGormRegistry(db)
	require.NoError(t, err)
	return reg
}

func registryCases(t *testing.T, reg compare.Registry) {
	ctx := context.Background()

	// Unknown ids return ErrNotFound.
	_, err := reg.GetUpload(ctx, "missing")
	assert.ErrorIs(t, err, compare.ErrNotFound)
	_, err = reg.GetComparison(ctx, "missing")
	assert.ErrorIs(t, err, compare.ErrNotFound)

	up := &models.Upload{
		ID:           "up-1",
		OriginalName: "inventory.xlsx",
		ObjectKey:    "uploads/up-1.xlsx",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, reg.SaveUpload(ctx, up))

	got, err := reg.GetUpload(ctx, "up-1")
	require.NoError(t, err)
	assert.Equal(t, "inventory.xlsx", got.OriginalName)
	assert.Equal(t, "uploads/up-1.xlsx", got.ObjectKey)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"cmp-old", "cmp-mid", "cmp-new"} {
		require.NoError(t, reg.SaveComparison(ctx, &models.Comparison{
			ID:         id,
			File1ID:    "up-1",
			File2ID:    "up-1",
			File1Name:  "inventory.xlsx",
			File2Name:  "inventory.xlsx",
			Sheet1:     "Sheet1",
			Sheet2:     "Sheet1",
			KeyColumns: "id",
			DiffRows:   i,
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}))
	}

	cmp, err := reg.GetComparison(ctx, "cmp-mid")
	require.NoError(t, err)
	assert.Equal(t, 1, cmp.DiffRows)
	assert.Equal(t, "id", cmp.KeyColumns)

	// Newest first, limit honored.
	cmps, err := reg.ListComparisons(ctx, 2)
	require.NoError(t, err)
	require.Len(t, cmps, 2)
	assert.Equal(t, "cmp-new", cmps[0].ID)
	assert.Equal(t, "cmp-mid", cmps[1].ID)
}

func TestGormRegistry(t *testing.T) {
	registryCases(t, setupSQLiteRegistry(t))
}

func TestMemoryRegistry(t *testing.T) {
	registryCases(t, compare.NewMemoryRegistry())
}

func TestNewGormRegistryMigrationFailure(t *testing.T) {
	// A connection with no expectations rejects the migration queries.
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	_, err = compare.NewGormRegistry(db)
	assert.Error(t, err)
}
