package cmd

import (
	"context"
	"fmt"
	"time"

	"sheet-recon/core/config"
	"sheet-recon/core/database"
	"sheet-recon/core/logger"
	"sheet-recon/core/storage"
	"sheet-recon/feature/compare/models"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cleanupOlderThan time.Duration
	cleanupDryRun    bool
)

// cleanupCmd removes stored uploads, reports, and marked copies older than
// the retention window.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove stored files older than the retention window",
	Long: `Remove uploaded workbooks, reports, and marked copies from object
storage once they are older than the retention window. When a registry
database is configured, the matching rows are removed as well.

Examples:
  # Remove everything older than 24h (default)
  cleanup

  # Preview what a 7-day retention would remove
  cleanup --older-than 168h --dry-run`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().DurationVar(&cleanupOlderThan, "older-than", 24*time.Hour, "Retention window")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "List what would be removed without deleting")

	RootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	cutoff := time.Now().Add(-cleanupOlderThan)
	l.Info("Starting cleanup",
		zap.Time("cutoff", cutoff),
		zap.Bool("dry_run", cleanupDryRun))

	removed := 0
	for _, prefix := range []string{"uploads/", "results/", "marked/"} {
		n, err := cleanupPrefix(ctx, l, client, cfg.Storage.Bucket, prefix, cutoff)
		if err != nil {
			return err
		}
		removed += n
	}

	// Registry rows follow the objects.
	if !cleanupDryRun {
		if db, err := database.Connect(cfg.Database); err != nil {
			l.Warn("Optional database connection failed, registry rows not cleaned", zap.Error(err))
		} else {
			if err := db.Where("created_at < ?", cutoff).Delete(&models.Upload{}).Error; err != nil {
				l.Warn("Failed to clean upload rows", zap.Error(err))
			}
			if err := db.Where("created_at < ?", cutoff).Delete(&models.Comparison{}).Error; err != nil {
				l.Warn("Failed to clean comparison rows", zap.Error(err))
			}
		}
	}

	l.Info("Cleanup complete", zap.Int("objects_removed", removed))
	return nil
}

// cleanupPrefix removes all objects under a prefix with a LastModified
// before the cutoff. Returns the number removed (or matched, in dry-run).
func cleanupPrefix(ctx context.Context, l *zap.Logger, client storage.Client, bucket, prefix string, cutoff time.Time) (int, error) {
	matched := 0
	expired := make(chan minio.ObjectInfo)
	errCh := client.RemoveObjects(ctx, bucket, expired, minio.RemoveObjectsOptions{})

	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			close(expired)
			for range errCh {
			}
			return matched, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		if !obj.LastModified.Before(cutoff) {
			continue
		}
		matched++
		if cleanupDryRun {
			l.Info("Would remove", zap.String("key", obj.Key))
			continue
		}
		expired <- obj
	}
	close(expired)

	for removeErr := range errCh {
		if removeErr.Err != nil {
			return matched, fmt.Errorf("failed to remove %s: %w", removeErr.ObjectName, removeErr.Err)
		}
	}
	return matched, nil
}
