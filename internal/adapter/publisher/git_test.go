package publisher

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/farhanadit/dbkeeper/internal/config"
	"github.com/farhanadit/dbkeeper/internal/domain"
)

// scriptedRunner returns one canned result per invocation, in order.
type scriptedRunner struct {
	commands []domain.Command
	results  []domain.CommandResult
	errs     []error
}

func (s *scriptedRunner) Run(ctx context.Context, cmd domain.Command) (domain.CommandResult, error) {
	i := len(s.commands)
	s.commands = append(s.commands, cmd)

	var result domain.CommandResult
	if i < len(s.results) {
		result = s.results[i]
	}
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return result, err
}

func (s *scriptedRunner) argv(i int) string {
	return s.commands[i].Path + " " + strings.Join(s.commands[i].Args, " ")
}

func TestGitPublisher(t *testing.T) {
	cfg := &config.GitConfig{
		Enabled: true,
		RepoDir: "/srv/backups",
		Remote:  "origin",
		Branch:  "main",
	}

	artifact := domain.Artifact{
		DatabaseName: "mydb",
		Filename:     "mydb_20250102_150405.sql",
		Path:         "/srv/backups/mydb_20250102_150405.sql",
		Size:         1024,
		CreatedAt:    time.Date(2025, 1, 2, 15, 4, 5, 0, time.Local),
	}

	Convey("Given a git publisher", t, func() {
		ctx := context.Background()

		Convey("When the export directory has changes", func() {
			run := &scriptedRunner{results: []domain.CommandResult{
				{ExitCode: 0}, // add
				{ExitCode: 1}, // diff --cached: changes staged
				{ExitCode: 0}, // commit
				{ExitCode: 0}, // push
			}}
			git := NewGit(cfg, "/srv/backups", run)

			err := git.Publish(ctx, artifact)

			Convey("It should stage, commit, and push in order", func() {
				So(err, ShouldBeNil)
				So(len(run.commands), ShouldEqual, 4)
				So(run.argv(0), ShouldEqual, "git add -A -- /srv/backups")
				So(run.argv(1), ShouldEqual, "git diff --cached --quiet")
				So(run.argv(2), ShouldStartWith, "git commit -m")
				So(run.argv(3), ShouldEqual, "git push origin main")
			})

			Convey("Every command should run in the repo directory", func() {
				for _, cmd := range run.commands {
					So(cmd.Dir, ShouldEqual, "/srv/backups")
				}
			})

			Convey("The commit message should name the artifact", func() {
				So(run.argv(2), ShouldContainSubstring, "mydb_20250102_150405.sql")
				So(run.argv(2), ShouldContainSubstring, "2025-01-02 15:04:05")
			})
		})

		Convey("When the tree is clean", func() {
			run := &scriptedRunner{results: []domain.CommandResult{
				{ExitCode: 0}, // add
				{ExitCode: 0}, // diff --cached: nothing staged
			}}
			git := NewGit(cfg, "/srv/backups", run)

			err := git.Publish(ctx, artifact)

			Convey("It should skip the commit and report no changes", func() {
				So(errors.Is(err, domain.ErrNoChanges), ShouldBeTrue)
				So(len(run.commands), ShouldEqual, 2)
			})
		})

		Convey("When the push is rejected", func() {
			run := &scriptedRunner{results: []domain.CommandResult{
				{ExitCode: 0},
				{ExitCode: 1},
				{ExitCode: 0},
				{ExitCode: 1, Output: []byte("! [rejected] main -> main (non-fast-forward)")},
			}}
			git := NewGit(cfg, "/srv/backups", run)

			err := git.Publish(ctx, artifact)

			Convey("It should fail on the push step with the git output", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "git push")
				So(err.Error(), ShouldContainSubstring, "rejected")
			})
		})

		Convey("When staging fails", func() {
			run := &scriptedRunner{results: []domain.CommandResult{
				{ExitCode: 128, Output: []byte("fatal: not a git repository")},
			}}
			git := NewGit(cfg, "/srv/backups", run)

			err := git.Publish(ctx, artifact)

			Convey("It should fail on the add step and stop", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "git add")
				So(len(run.commands), ShouldEqual, 1)
			})
		})
	})
}
