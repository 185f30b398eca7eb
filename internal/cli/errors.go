package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mystor/ppm/internal/branding"
)

// Exit codes for failures detected by ppm itself. A child's exit code is
// relayed unchanged instead.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError ends the process with Code. An empty Message prints nothing,
// which is how a child's exit status is relayed without extra noise.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Message
}

func usageErrorf(format string, args ...any) error {
	return &ExitError{Code: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

// cobraUsageError converts the command-line errors cobra raises itself, which
// are untyped, into usage errors. Flag errors already arrive through the
// flag error func.
func cobraUsageError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	if strings.HasPrefix(err.Error(), "unknown command ") {
		return usageErrorf("%v", err)
	}
	return err
}

// report writes err to w and returns the exit code it maps to.
func report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintf(w, "%s: %s\n", branding.CLIName(), exitErr.Message)
		}
		return exitErr.Code
	}
	fmt.Fprintf(w, "%s: %v\n", branding.CLIName(), err)
	return ExitFailure
}
