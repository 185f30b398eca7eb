package runtime

import (
	"context"
	"io"
)

// Executor runs a command to completion.
type Executor interface {
	// Exec runs c and returns the child's exit code. A nonzero exit code is
	// not an error; the error return is reserved for failures to start or
	// wait for the process.
	Exec(ctx context.Context, c Command) (int, error)
}

// Command describes one child process.
type Command struct {
	Path string
	Args []string
	// Dir is the working directory; empty means the caller's.
	Dir string
	// Env is the full environment; nil means the caller's.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// SignalExitBase is added to a signal number to form the exit code of a
// child killed by that signal, following shell convention.
const SignalExitBase = 128
