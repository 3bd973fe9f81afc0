package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/farhanadit/dbkeeper/internal/domain"
)

type Logger interface {
	Infof(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

type NamedPublisher struct {
	Name      string
	Publisher domain.Publisher
}

// Cycle is one full backup pass: dump, optional compression, publish fan-out
// in fixed order, retention sweep last. Steps fail independently; the sweep
// runs even when the dump failed, so retention keeps moving while backups are
// broken instead of the disk filling with stale dumps.
type Cycle struct {
	db          domain.Database
	exportDir   string
	compress    bool
	compressor  domain.Compressor
	publishers  []NamedPublisher
	sweeper     *Sweeper
	logger      Logger
	stepTimeout time.Duration

	now func() time.Time
}

func NewCycle(
	db domain.Database,
	exportDir string,
	compress bool,
	compressor domain.Compressor,
	publishers []NamedPublisher,
	sweeper *Sweeper,
	logger Logger,
	stepTimeout time.Duration,
) *Cycle {
	return &Cycle{
		db:          db,
		exportDir:   exportDir,
		compress:    compress,
		compressor:  compressor,
		publishers:  publishers,
		sweeper:     sweeper,
		logger:      logger,
		stepTimeout: stepTimeout,
		now:         time.Now,
	}
}

// outcome collects per-step results for the cycle summary line. Ephemeral,
// never persisted.
type outcome struct {
	steps []string
}

func (o *outcome) record(step, status string) {
	o.steps = append(o.steps, step+"="+status)
}

func (o *outcome) String() string {
	return strings.Join(o.steps, " ")
}

func (uc *Cycle) Execute(ctx context.Context) error {
	start := time.Now()
	dbName := uc.db.Name()
	out := &outcome{}

	uc.logger.Infof("[%s] Starting backup cycle...", dbName)

	artifact, err := uc.produce(ctx)
	if err != nil {
		uc.logger.Errorf("[%s] Dump failed: %v", dbName, err)
		out.record("dump", "failed")
	} else {
		uc.logger.Infof("[%s] Dump created: %s (%.2f MB)",
			dbName, artifact.Filename, float64(artifact.Size)/(1024*1024))
		out.record("dump", "ok")
		uc.publish(ctx, *artifact, out)
	}

	deleted, err := uc.sweeper.Execute(ctx)
	if err != nil {
		uc.logger.Errorf("[%s] Sweep failed: %v", dbName, err)
		out.record("sweep", "failed")
	} else {
		out.record("sweep", fmt.Sprintf("deleted-%d", deleted))
	}

	uc.logger.Infof("[%s] Cycle finished in %s: %s",
		dbName, time.Since(start).Round(time.Second), out)

	return nil
}

func (uc *Cycle) produce(ctx context.Context) (*domain.Artifact, error) {
	if err := os.MkdirAll(uc.exportDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	createdAt := uc.now()
	filename := fmt.Sprintf("%s_%s.sql", uc.db.Name(), createdAt.Format("20060102_150405"))
	path := uniquePath(uc.exportDir, filename)

	dumpCtx, cancel := context.WithTimeout(ctx, uc.stepTimeout)
	defer cancel()

	if err := uc.db.Dump(dumpCtx, path); err != nil {
		os.Remove(path)
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat dump file: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(path)
		return nil, fmt.Errorf("dump file %s is empty", filepath.Base(path))
	}

	artifact := &domain.Artifact{
		DatabaseName: uc.db.Name(),
		Filename:     filepath.Base(path),
		Path:         path,
		Size:         info.Size(),
		CreatedAt:    createdAt,
	}

	if uc.compress {
		if err := uc.compressArtifact(artifact); err != nil {
			// The raw dump is still a good backup; ship it uncompressed.
			uc.logger.Warnf("[%s] Compression failed, keeping raw dump: %v",
				uc.db.Name(), err)
		}
	}

	return artifact, nil
}

func (uc *Cycle) compressArtifact(artifact *domain.Artifact) error {
	gzPath := artifact.Path + ".gz"

	if err := uc.compressor.Compress(artifact.Path, gzPath); err != nil {
		os.Remove(gzPath)
		return err
	}

	info, err := os.Stat(gzPath)
	if err != nil {
		os.Remove(gzPath)
		return fmt.Errorf("stat compressed file: %w", err)
	}

	os.Remove(artifact.Path)
	artifact.Path = gzPath
	artifact.Filename += ".gz"
	artifact.Size = info.Size()
	artifact.Compressed = true

	return nil
}

func (uc *Cycle) publish(ctx context.Context, artifact domain.Artifact, out *outcome) {
	dbName := uc.db.Name()

	for _, target := range uc.publishers {
		if ctx.Err() != nil {
			out.record(target.Name, "cancelled")
			continue
		}

		publishCtx, cancel := context.WithTimeout(ctx, uc.stepTimeout)
		err := target.Publisher.Publish(publishCtx, artifact)
		cancel()

		switch {
		case err == nil:
			uc.logger.Infof("[%s] Published to %s: %s", dbName, target.Name, artifact.Filename)
			out.record(target.Name, "ok")
		case errors.Is(err, domain.ErrNoChanges):
			uc.logger.Infof("[%s] Nothing new for %s, skipped", dbName, target.Name)
			out.record(target.Name, "skipped")
		case errors.Is(err, domain.ErrTooLarge):
			uc.logger.Warnf("[%s] Skipping %s upload: %v", dbName, target.Name, err)
			out.record(target.Name, "too-large")
		default:
			uc.logger.Errorf("[%s] Failed to publish to %s: %v", dbName, target.Name, err)
			out.record(target.Name, "failed")
		}
	}
}
