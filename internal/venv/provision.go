package venv

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mystor/ppm/internal/config"
	"github.com/mystor/ppm/internal/logging"
	"github.com/mystor/ppm/internal/runtime"
)

// stderrTailLines bounds how much tool output an error message carries.
const stderrTailLines = 20

// Provisioner is the pair of external tools init drives.
type Provisioner interface {
	// Create builds a fresh environment at path using the given interpreter.
	Create(ctx context.Context, path, python string) (*Environment, error)
	// Install installs the dependencies listed in requirementsFile into env.
	Install(ctx context.Context, env *Environment, requirementsFile string) error
}

// ToolProvisioner drives venv or virtualenv and pip through an Executor.
type ToolProvisioner struct {
	Executor runtime.Executor
	// Creator is config.CreatorVenv or config.CreatorVirtualenv.
	Creator string
	PipArgs []string
	// Env is the environment the tools run with; nil means the caller's.
	Env []string
	// Stdout receives the tools' progress output. Their stderr is captured
	// and only surfaced when a tool fails.
	Stdout io.Writer
}

// Create runs the configured creation tool.
func (p *ToolProvisioner) Create(ctx context.Context, path, python string) (*Environment, error) {
	var cmd runtime.Command
	switch p.Creator {
	case config.CreatorVirtualenv:
		cmd = runtime.Command{Path: "virtualenv", Args: []string{"-p", python, path}}
	case config.CreatorVenv, "":
		cmd = runtime.Command{Path: python, Args: []string{"-m", "venv", path}}
	default:
		return nil, fmt.Errorf("unknown environment creator %q", p.Creator)
	}
	cmd.Dir = filepath.Dir(path)

	if err := p.run(ctx, "creating environment", cmd); err != nil {
		return nil, err
	}
	return New(path), nil
}

// Install runs pip from the environment's own interpreter.
func (p *ToolProvisioner) Install(ctx context.Context, env *Environment, requirementsFile string) error {
	args := append([]string{"-m", "pip", "install", "-r", requirementsFile}, p.PipArgs...)
	return p.run(ctx, "installing requirements", runtime.Command{
		Path: env.Interpreter(),
		Args: args,
		Dir:  filepath.Dir(requirementsFile),
	})
}

func (p *ToolProvisioner) run(ctx context.Context, what string, cmd runtime.Command) error {
	var stderr bytes.Buffer
	cmd.Env = p.Env
	cmd.Stdout = p.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = io.Discard
	}
	cmd.Stderr = &stderr

	logging.FromContext(ctx).Debug(what, "tool", cmd.Path, "args", cmd.Args)

	code, err := p.Executor.Exec(ctx, cmd)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", what, ErrToolFailed, err)
	}
	if code != 0 {
		msg := fmt.Sprintf("%s: %v: %s exited with code %d", what, ErrToolFailed, cmd.Path, code)
		if tail := lastLines(stderr.String(), stderrTailLines); tail != "" {
			msg += "\n" + tail
		}
		return &toolError{msg: msg}
	}
	return nil
}

// toolError carries the tool's stderr tail while still matching ErrToolFailed.
type toolError struct {
	msg string
}

func (e *toolError) Error() string { return e.msg }

func (e *toolError) Unwrap() error { return ErrToolFailed }

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
