package publisher

import (
	"context"
	"fmt"

	"github.com/farhanadit/dbkeeper/internal/config"
	"github.com/farhanadit/dbkeeper/internal/domain"
)

// Git stages the export directory, commits, and pushes to the configured
// remote. The repository and its remote must already exist.
type Git struct {
	repoDir   string
	remote    string
	branch    string
	exportDir string
	runner    domain.Runner
}

func NewGit(cfg *config.GitConfig, exportDir string, runner domain.Runner) *Git {
	return &Git{
		repoDir:   cfg.RepoDir,
		remote:    cfg.Remote,
		branch:    cfg.Branch,
		exportDir: exportDir,
		runner:    runner,
	}
}

func (g *Git) Publish(ctx context.Context, artifact domain.Artifact) error {
	if err := g.git(ctx, "add", "-A", "--", g.exportDir); err != nil {
		return fmt.Errorf("git add: %w", err)
	}

	// diff --cached --quiet exits 0 when the index matches HEAD, i.e. the
	// add staged nothing new. Skipping the commit is not a failure.
	result, err := g.runner.Run(ctx, domain.Command{
		Path: "git",
		Args: []string{"diff", "--cached", "--quiet"},
		Dir:  g.repoDir,
	})
	if err != nil {
		return fmt.Errorf("git diff: %w", err)
	}
	if result.ExitCode == 0 {
		return domain.ErrNoChanges
	}

	message := fmt.Sprintf("Backup %s (%s)",
		artifact.Filename, artifact.CreatedAt.Format("2006-01-02 15:04:05"))
	if err := g.git(ctx, "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit: %w", err)
	}

	// A failed push leaves the local commit in place; the next cycle's push
	// carries it along.
	if err := g.git(ctx, "push", g.remote, g.branch); err != nil {
		return fmt.Errorf("git push: %w", err)
	}

	return nil
}

func (g *Git) git(ctx context.Context, args ...string) error {
	result, err := g.runner.Run(ctx, domain.Command{
		Path: "git",
		Args: args,
		Dir:  g.repoDir,
	})
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("exited with code %d: %s", result.ExitCode, result.Output)
	}
	return nil
}
