package app

import (
	"context"
	"fmt"
	"time"

	"github.com/farhanadit/dbkeeper/internal/adapter/compressor"
	"github.com/farhanadit/dbkeeper/internal/adapter/database"
	"github.com/farhanadit/dbkeeper/internal/adapter/publisher"
	"github.com/farhanadit/dbkeeper/internal/adapter/runner"
	"github.com/farhanadit/dbkeeper/internal/config"
	"github.com/farhanadit/dbkeeper/internal/infrastructure/logger"
	"github.com/farhanadit/dbkeeper/internal/infrastructure/scheduler"
	"github.com/farhanadit/dbkeeper/internal/usecase"
)

type App struct {
	config *config.Config
	logger *logger.Logger
	cycle  *usecase.Cycle
	loop   *scheduler.Loop
	cron   *scheduler.Cron
}

func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.App.LogLevel, cfg.App.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	log.Infof("Starting %s", cfg.App.Name)
	log.Infof("Backing up %s on %s:%d to %s",
		cfg.Database.Name, cfg.Database.Host, cfg.Database.Port, cfg.Backup.ExportDir)

	run := runner.NewExec()
	db := database.NewMySQL(&cfg.Database, run)

	var publishers []usecase.NamedPublisher
	var pruners []usecase.Pruner

	if cfg.Git.Enabled {
		publishers = append(publishers, usecase.NamedPublisher{
			Name:      "git",
			Publisher: publisher.NewGit(&cfg.Git, cfg.Backup.ExportDir, run),
		})
		log.Infof("✓ Git publishing enabled (%s %s)", cfg.Git.Remote, cfg.Git.Branch)
	}

	if cfg.Webhook.Enabled {
		publishers = append(publishers, usecase.NamedPublisher{
			Name:      "webhook",
			Publisher: publisher.NewDiscord(&cfg.Webhook),
		})
		log.Infof("✓ Webhook upload enabled (limit %d MB)", cfg.Webhook.MaxUploadMB)
	}

	if cfg.S3.Enabled {
		s3Publisher, err := publisher.NewS3(&cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3: %w", err)
		}
		publishers = append(publishers, usecase.NamedPublisher{
			Name:      "s3",
			Publisher: s3Publisher,
		})
		pruners = append(pruners, s3Publisher)
		log.Infof("✓ S3 replication enabled (bucket: %s)", cfg.S3.Bucket)
	}

	if cfg.Telegram.Enabled {
		telegramPublisher, err := publisher.NewTelegram(&cfg.Telegram)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telegram: %w", err)
		}
		publishers = append(publishers, usecase.NamedPublisher{
			Name:      "telegram",
			Publisher: telegramPublisher,
		})
		log.Infof("✓ Telegram notifications enabled")
	}

	retention := time.Duration(cfg.Backup.RetentionHours * float64(time.Hour))
	sweeper := usecase.NewSweeper(cfg.Backup.ExportDir, retention, pruners, log)

	cycle := usecase.NewCycle(
		db,
		cfg.Backup.ExportDir,
		cfg.Backup.Compress,
		compressor.NewGzip(),
		publishers,
		sweeper,
		log,
		time.Duration(cfg.Backup.CommandTimeoutMinutes)*time.Minute,
	)

	a := &App{
		config: cfg,
		logger: log,
		cycle:  cycle,
	}

	if cfg.Backup.Schedule != "" {
		a.cron = scheduler.NewCron()
	} else {
		interval := time.Duration(cfg.Backup.IntervalHours * float64(time.Hour))
		a.loop = scheduler.NewLoop(interval)
	}

	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	if a.cron != nil {
		if err := a.cron.AddJob(a.config.Backup.Schedule, a.cycle.Execute); err != nil {
			return fmt.Errorf("invalid backup schedule %q: %w", a.config.Backup.Schedule, err)
		}
		a.cron.Start()
		a.logger.Infof("Scheduler started: %s", a.config.Backup.Schedule)

		<-ctx.Done()
		a.cron.Stop()
		return nil
	}

	a.logger.Infof("Running every %.1f hour(s)", a.config.Backup.IntervalHours)
	return a.loop.Run(ctx, a.cycle.Execute)
}

func (a *App) Shutdown() {
	a.logger.Infof("Shutting down...")
	a.logger.Close()
}
