package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/mystor/ppm/internal/logging"
)

// ProcessExecutor spawns real operating-system processes.
type ProcessExecutor struct{}

// Exec starts c and blocks until it exits. Interrupts delivered to ppm while
// the child runs are swallowed so the child, which shares the terminal,
// decides how to react to them.
func (ProcessExecutor) Exec(ctx context.Context, c Command) (int, error) {
	log := logging.FromContext(ctx)

	cmd := exec.Command(c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)

	log.Debug("exec", "path", c.Path, "args", c.Args, "dir", c.Dir)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitCode(exitErr)
		log.Debug("child exited", "path", c.Path, "code", code)
		return code, nil
	}
	return -1, fmt.Errorf("executing %s: %w", c.Path, err)
}

// exitCode extracts the exit status, mapping death-by-signal to 128+signo.
func exitCode(exitErr *exec.ExitError) int {
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return SignalExitBase + int(ws.Signal())
	}
	return 1
}
