//go:build integration

package cli

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mystor/ppm/internal/project"
	"github.com/stretchr/testify/require"
)

// These tests drive the real venv and pip through the process executor.
// They need a python3 with the venv module; requirements carry no packages
// so pip never touches the network.

const integrationRequirements = `
# PYTHON=3
`

const integrationScript = `
import json

print('Success!')
`

type realRun struct {
	code   int
	stdout string
	stderr string
}

func requirePython(t *testing.T) {
	t.Helper()
	py, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not available, skipping")
	}
	if err := exec.Command(py, "-c", "import venv").Run(); err != nil {
		t.Skip("python3 venv module not available, skipping")
	}
}

// runReal runs ppm in dir against the real tools.
func runReal(t *testing.T, root, dir, stdin string, args ...string) realRun {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := &App{
		Settings: testSettings(),
		Lookup: func(path string) bool {
			return strings.HasPrefix(path, root) && project.IsFile(path)
		},
		Getwd:  func() (string, error) { return dir, nil },
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
	}
	code := app.Run(context.Background(), args)
	return realRun{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func setupRealProject(t *testing.T) string {
	t.Helper()
	requirePython(t)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "requirements.txt"), integrationRequirements)
	writeFile(t, filepath.Join(root, "file.py"), integrationScript)
	writeFile(t, filepath.Join(root, "subdir", "file.py"), integrationScript)

	out := runReal(t, root, root, "", "init")
	require.Equal(t, 0, out.code, "init failed: %s", out.stderr)
	require.Empty(t, out.stderr)
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestIntegration_Init(t *testing.T) {
	requirePython(t)

	t.Run("default", func(t *testing.T) {
		root := t.TempDir()
		out := runReal(t, root, root, "", "init")
		require.Equal(t, 0, out.code, out.stderr)
		require.DirExists(t, filepath.Join(root, "ppm_env"))

		again := runReal(t, root, root, "", "init")
		require.NotEqual(t, 0, again.code)
		require.NotEmpty(t, again.stderr)
	})

	t.Run("custom env", func(t *testing.T) {
		root := t.TempDir()
		out := runReal(t, root, root, "", "init", "--env", "othername")
		require.Equal(t, 0, out.code, out.stderr)
		require.DirExists(t, filepath.Join(root, "othername"))

		again := runReal(t, root, root, "", "init", "--env", "othername")
		require.NotEqual(t, 0, again.code)
		require.NotEmpty(t, again.stderr)
	})
}

func TestIntegration_Run(t *testing.T) {
	root := setupRealProject(t)

	out := runReal(t, root, root, "", "run", "file.py")
	require.Equal(t, 0, out.code, out.stderr)
	require.Equal(t, "Success!\n", out.stdout)

	sub := runReal(t, root, filepath.Join(root, "subdir"), "", "run", "file.py")
	require.Equal(t, 0, sub.code, sub.stderr)
	require.Equal(t, "Success!\n", sub.stdout)

	again := runReal(t, root, root, "", "run", "file.py")
	require.Equal(t, out, again)
}

func TestIntegration_RunExitCode(t *testing.T) {
	root := setupRealProject(t)
	writeFile(t, filepath.Join(root, "fail.py"), "import sys\nsys.exit(5)\n")

	out := runReal(t, root, root, "", "run", "fail.py")
	require.Equal(t, 5, out.code)
}

func TestIntegration_RunUsesEnvironmentInterpreter(t *testing.T) {
	root := setupRealProject(t)
	writeFile(t, filepath.Join(root, "prefix.py"), "import sys\nprint(sys.prefix)\n")

	out := runReal(t, root, root, "", "run", "prefix.py")
	require.Equal(t, 0, out.code, out.stderr)

	want, err := filepath.EvalSymlinks(filepath.Join(root, "ppm_env"))
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(strings.TrimSpace(out.stdout))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestIntegration_Shell(t *testing.T) {
	root := setupRealProject(t)
	input := "import json\nprint('Success!')"

	out := runReal(t, root, root, input, "shell")
	require.Equal(t, 0, out.code, out.stderr)
	require.Equal(t, "Success!\n", out.stdout)

	sub := runReal(t, root, filepath.Join(root, "subdir"), input, "shell")
	require.Equal(t, 0, sub.code, sub.stderr)
	require.Equal(t, "Success!\n", sub.stdout)

	nofile := runReal(t, root, root, "", "shell", "file.py")
	require.NotEqual(t, 0, nofile.code)
	require.NotEmpty(t, nofile.stderr)
}
