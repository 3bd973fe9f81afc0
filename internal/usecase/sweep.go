package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Pruner removes remote copies older than the cutoff. Implemented by remote
// stores that mirror the export directory (S3).
type Pruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int, error)
	Name() string
}

// Sweeper enforces the retention window over the export directory. Age comes
// from the filename timestamp; files whose names don't parse (added by hand,
// copied in) fall back to their modification time.
type Sweeper struct {
	exportDir string
	retention time.Duration
	pruners   []Pruner
	logger    Logger
}

func NewSweeper(exportDir string, retention time.Duration, pruners []Pruner, logger Logger) *Sweeper {
	return &Sweeper{
		exportDir: exportDir,
		retention: retention,
		pruners:   pruners,
		logger:    logger,
	}
}

// Execute deletes every backup file older than the retention window and
// returns how many went. One file's failure never stops the rest, and a file
// that vanished before its os.Remove still counts as deleted.
func (s *Sweeper) Execute(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.retention)

	entries, err := os.ReadDir(s.exportDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read export directory: %w", err)
	}

	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() || !isBackupFile(entry.Name()) {
			continue
		}

		createdAt, err := extractTimestamp(entry.Name())
		if err != nil {
			info, infoErr := entry.Info()
			if infoErr != nil {
				if errors.Is(infoErr, fs.ErrNotExist) {
					continue
				}
				s.logger.Warnf("Could not stat %s: %v", entry.Name(), infoErr)
				continue
			}
			createdAt = info.ModTime()
		}

		if !createdAt.Before(cutoff) {
			continue
		}

		path := filepath.Join(s.exportDir, entry.Name())
		if err := os.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				deleted++
				continue
			}
			s.logger.Errorf("Failed to delete %s: %v", path, err)
			continue
		}

		s.logger.Infof("Deleted old backup: %s", path)
		deleted++
	}

	for _, pruner := range s.pruners {
		n, err := pruner.Prune(ctx, cutoff)
		if err != nil {
			s.logger.Errorf("Failed to prune %s: %v", pruner.Name(), err)
		}
		if n > 0 {
			s.logger.Infof("Pruned %d old backup(s) from %s", n, pruner.Name())
		}
	}

	return deleted, nil
}
