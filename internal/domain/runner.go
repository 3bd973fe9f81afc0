package domain

import "context"

// Command describes one external tool invocation. Env entries are appended to
// the parent process environment; Dir, when set, is the working directory.
type Command struct {
	Path string
	Args []string
	Env  []string
	Dir  string
}

type CommandResult struct {
	ExitCode int
	// Combined stdout and stderr.
	Output []byte
}

// Runner executes external commands. A non-zero exit is reported through
// CommandResult, not the error; the error is reserved for failures to run at
// all (binary missing, context cancelled or timed out).
type Runner interface {
	Run(ctx context.Context, cmd Command) (CommandResult, error)
}
