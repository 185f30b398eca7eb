package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mystor/ppm/internal/config"
	"github.com/mystor/ppm/internal/platform"
	"github.com/mystor/ppm/internal/project"
	"github.com/mystor/ppm/internal/runtime"
	"github.com/mystor/ppm/internal/venv"
	"github.com/stretchr/testify/require"
)

type createCall struct {
	Path   string
	Python string
}

type installCall struct {
	Env          string
	Requirements string
}

// fakeProvisioner lays out a minimal environment instead of running venv.
type fakeProvisioner struct {
	created    []createCall
	installed  []installCall
	createErr  error
	installErr error
	version    string
}

func (f *fakeProvisioner) Create(_ context.Context, path, python string) (*venv.Environment, error) {
	f.created = append(f.created, createCall{Path: path, Python: python})
	if f.createErr != nil {
		return nil, f.createErr
	}
	interp := platform.Interpreter(path)
	if err := os.MkdirAll(filepath.Dir(interp), 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(interp, []byte("#!/bin/sh\n"), 0755); err != nil {
		return nil, err
	}
	version := f.version
	if version == "" {
		version = "3.11.4"
	}
	cfg := fmt.Sprintf("home = /usr/bin\nversion = %s\n", version)
	if err := os.WriteFile(filepath.Join(path, "pyvenv.cfg"), []byte(cfg), 0644); err != nil {
		return nil, err
	}
	return venv.New(path), nil
}

func (f *fakeProvisioner) Install(_ context.Context, env *venv.Environment, requirementsFile string) error {
	f.installed = append(f.installed, installCall{Env: env.Path, Requirements: requirementsFile})
	return f.installErr
}

// fakeExecutor records commands and plays back a canned result.
type fakeExecutor struct {
	commands []runtime.Command
	stdin    []string
	output   string
	code     int
	err      error
}

func (f *fakeExecutor) Exec(_ context.Context, c runtime.Command) (int, error) {
	f.commands = append(f.commands, c)
	if c.Stdin != nil {
		data, _ := io.ReadAll(c.Stdin)
		f.stdin = append(f.stdin, string(data))
	}
	if f.err != nil {
		return -1, f.err
	}
	if c.Stdout != nil {
		io.WriteString(c.Stdout, f.output)
	}
	return f.code, nil
}

func (f *fakeExecutor) last(t *testing.T) runtime.Command {
	t.Helper()
	require.NotEmpty(t, f.commands, "executor was never called")
	return f.commands[len(f.commands)-1]
}

type harness struct {
	t      *testing.T
	app    *App
	prov   *fakeProvisioner
	exec   *fakeExecutor
	root   string
	cwd    string
	stdin  bytes.Buffer
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func testSettings() *config.Settings {
	return &config.Settings{
		Env:      "ppm_env",
		Python:   "python3",
		Creator:  config.CreatorVenv,
		Dotenv:   true,
		LogLevel: "warn",
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:    t,
		prov: &fakeProvisioner{},
		exec: &fakeExecutor{},
		root: t.TempDir(),
	}
	h.cwd = h.root
	h.app = &App{
		Settings:    testSettings(),
		Provisioner: h.prov,
		Executor:    h.exec,
		// Confine upward searches to the temp dir.
		Lookup: func(path string) bool {
			return strings.HasPrefix(path, h.root) && project.IsFile(path)
		},
		Getwd:   func() (string, error) { return h.cwd, nil },
		Environ: func() []string { return []string{"HOME=/home/tester", "PATH=/usr/bin"} },
		Now:     func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdin:   &h.stdin,
		Stdout:  &h.stdout,
		Stderr:  &h.stderr,
		Version: "test",
	}
	return h
}

// run executes one command line with fresh output buffers.
func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	return h.app.Run(context.Background(), args)
}

func (h *harness) write(rel, content string) string {
	h.t.Helper()
	path := filepath.Join(h.root, rel)
	require.NoError(h.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(h.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (h *harness) mkdir(rel string) string {
	h.t.Helper()
	path := filepath.Join(h.root, rel)
	require.NoError(h.t, os.MkdirAll(path, 0755))
	return path
}

// mustInit creates an environment through the fake provisioner.
func (h *harness) mustInit(args ...string) {
	h.t.Helper()
	code := h.run(append([]string{"init"}, args...)...)
	require.Equal(h.t, 0, code, "init failed: %s", h.stderr.String())
}

func envMap(env []string) map[string]string {
	m := make(map[string]string, len(env))
	for _, e := range env {
		k, v, _ := strings.Cut(e, "=")
		m[k] = v
	}
	return m
}
