package runner

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/farhanadit/dbkeeper/internal/domain"
)

func TestExecRunner(t *testing.T) {
	Convey("Given the exec command runner", t, func() {
		run := NewExec()
		ctx := context.Background()

		Convey("When a command succeeds", func() {
			result, err := run.Run(ctx, domain.Command{
				Path: "sh",
				Args: []string{"-c", "echo hello"},
			})

			Convey("It should report exit zero and the output", func() {
				So(err, ShouldBeNil)
				So(result.ExitCode, ShouldEqual, 0)
				So(string(result.Output), ShouldContainSubstring, "hello")
			})
		})

		Convey("When a command exits non-zero", func() {
			result, err := run.Run(ctx, domain.Command{
				Path: "sh",
				Args: []string{"-c", "echo oops >&2; exit 3"},
			})

			Convey("The exit code should be reported without an error", func() {
				So(err, ShouldBeNil)
				So(result.ExitCode, ShouldEqual, 3)
				So(string(result.Output), ShouldContainSubstring, "oops")
			})
		})

		Convey("When extra environment entries are set", func() {
			result, err := run.Run(ctx, domain.Command{
				Path: "sh",
				Args: []string{"-c", "echo $BACKUP_TOKEN"},
				Env:  []string{"BACKUP_TOKEN=tok123"},
			})

			Convey("The child should see them", func() {
				So(err, ShouldBeNil)
				So(string(result.Output), ShouldContainSubstring, "tok123")
			})
		})

		Convey("When the binary does not exist", func() {
			_, err := run.Run(ctx, domain.Command{Path: "definitely-not-a-real-binary"})

			Convey("It should return an error", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the context times out", func() {
			timeoutCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
			defer cancel()

			start := time.Now()
			_, err := run.Run(timeoutCtx, domain.Command{
				Path: "sh",
				Args: []string{"-c", "sleep 10"},
			})

			Convey("The command should be killed and the deadline reported", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "deadline")
				So(time.Since(start), ShouldBeLessThan, 5*time.Second)
			})
		})
	})
}
