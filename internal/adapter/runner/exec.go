package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/farhanadit/dbkeeper/internal/domain"
)

// Exec runs commands with os/exec. Each invocation inherits the parent
// environment plus the command's own entries, so credentials can be passed
// without appearing in argv.
type Exec struct{}

func NewExec() *Exec {
	return &Exec{}
}

func (e *Exec) Run(ctx context.Context, cmd domain.Command) (domain.CommandResult, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	output, err := c.CombinedOutput()

	// A hung or cancelled command is killed by CommandContext; report the
	// context error rather than the resulting exit status.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.CommandResult{Output: output}, fmt.Errorf("%s: %w", cmd.Path, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return domain.CommandResult{ExitCode: exitErr.ExitCode(), Output: output}, nil
	}
	if err != nil {
		return domain.CommandResult{Output: output}, fmt.Errorf("run %s: %w", cmd.Path, err)
	}

	return domain.CommandResult{Output: output}, nil
}
