package database

import (
	"context"
	"fmt"

	"github.com/farhanadit/dbkeeper/internal/config"
	"github.com/farhanadit/dbkeeper/internal/domain"
)

type MySQL struct {
	config *config.DatabaseConfig
	runner domain.Runner
}

func NewMySQL(cfg *config.DatabaseConfig, runner domain.Runner) *MySQL {
	return &MySQL{config: cfg, runner: runner}
}

// Dump exports the database to outputPath via mysqldump. The password goes
// through MYSQL_PWD in the child environment only; it never appears in argv,
// so process listings and error output stay clean.
func (m *MySQL) Dump(ctx context.Context, outputPath string) error {
	args := []string{
		fmt.Sprintf("--host=%s", m.config.Host),
		fmt.Sprintf("--port=%d", m.config.Port),
		fmt.Sprintf("--user=%s", m.config.User),
		"--single-transaction",
		"--quick",
		"--lock-tables=false",
		"--routines",
		"--triggers",
		"--events",
		fmt.Sprintf("--result-file=%s", outputPath),
		m.config.Name,
	}

	result, err := m.runner.Run(ctx, domain.Command{
		Path: "mysqldump",
		Args: args,
		Env:  []string{"MYSQL_PWD=" + m.config.Password},
	})
	if err != nil {
		return fmt.Errorf("mysqldump: %w", err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("mysqldump exited with code %d: %s", result.ExitCode, result.Output)
	}

	return nil
}

func (m *MySQL) Name() string {
	return m.config.Name
}
