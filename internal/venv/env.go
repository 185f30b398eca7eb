package venv

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/mystor/ppm/internal/branding"
	"github.com/mystor/ppm/internal/platform"
	"github.com/mystor/ppm/internal/project"
)

var (
	// ErrEnvExists is returned when init targets a directory that already exists.
	ErrEnvExists = errors.New("environment already exists")
	// ErrEnvNotFound is returned when no ancestor directory holds the environment.
	ErrEnvNotFound = errors.New("environment not found")
	// ErrToolFailed is returned when the creation or installation tool fails.
	ErrToolFailed = errors.New("tool failed")
)

const pyvenvCfg = "pyvenv.cfg"

// Environment is a virtual environment on disk.
type Environment struct {
	Name string
	Path string
}

// New returns the environment rooted at path.
func New(path string) *Environment {
	return &Environment{Name: filepath.Base(path), Path: path}
}

// Interpreter returns the path of the environment's python executable.
func (e *Environment) Interpreter() string {
	return platform.Interpreter(e.Path)
}

// BinDir returns the directory holding the environment's executables.
func (e *Environment) BinDir() string {
	return platform.BinDir(e.Path)
}

// ProjectDir returns the directory the environment lives in.
func (e *Environment) ProjectDir() string {
	return filepath.Dir(e.Path)
}

// MetadataPath returns the path of the ppm.yaml metadata file.
func (e *Environment) MetadataPath() string {
	return filepath.Join(e.Path, branding.MetadataFile())
}

// PythonVersion reads the interpreter version recorded in pyvenv.cfg by
// both venv ("version") and virtualenv ("version_info").
func (e *Environment) PythonVersion() (*semver.Version, error) {
	path := filepath.Join(e.Path, pyvenvCfg)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), "=")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "version", "version_info":
			return parsePyvenvVersion(strings.TrimSpace(value))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return nil, fmt.Errorf("no version recorded in %s", path)
}

// parsePyvenvVersion accepts "3.11.4" as well as virtualenv's
// "3.11.4.final.0".
func parsePyvenvVersion(raw string) (*semver.Version, error) {
	parts := strings.Split(raw, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	v, err := semver.NewVersion(strings.Join(parts, "."))
	if err != nil {
		return nil, fmt.Errorf("parsing interpreter version %q: %w", raw, err)
	}
	return v, nil
}

// CheckAbsent returns ErrEnvExists when anything already occupies path.
func CheckAbsent(path string) error {
	if _, err := os.Lstat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrEnvExists, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	return nil
}

// Find locates the environment called name in start or the nearest ancestor
// of start. A candidate qualifies when its interpreter exists according to
// lookup.
func Find(start, name string, lookup project.Lookup) (*Environment, error) {
	path, ok := project.FindUp(start, name, func(candidate string) bool {
		return lookup(platform.Interpreter(candidate))
	})
	if !ok {
		return nil, fmt.Errorf("%w: no %s in %s or any parent directory", ErrEnvNotFound, name, start)
	}
	return &Environment{Name: name, Path: path}, nil
}
