package runtime

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mystor/ppm/internal/platform"
)

// Variables ppm manages in a child's environment.
const (
	VarVirtualEnv = "VIRTUAL_ENV"
	VarPath       = "PATH"
	VarPythonHome = "PYTHONHOME"
)

// VirtualEnv builds the environment for a process running inside the
// virtual environment rooted at envPath. base is the caller's environment;
// extra holds variables (typically from a dotenv file) added only when base
// does not already define them.
func VirtualEnv(base []string, envPath string, extra map[string]string) []string {
	env := make([]string, len(base))
	copy(env, base)

	for _, k := range slices.Sorted(maps.Keys(extra)) {
		if _, ok := lookupEnv(env, k); !ok {
			env = append(env, k+"="+extra[k])
		}
	}

	env = setEnv(env, VarVirtualEnv, envPath)
	path, _ := lookupEnv(env, VarPath)
	env = setEnv(env, VarPath, platform.PrependPath(platform.BinDir(envPath), path))
	env = unsetEnv(env, VarPythonHome)
	return env
}

// LoadDotenv reads a dotenv file. A missing file yields no variables and no
// error.
func LoadDotenv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading dotenv file %s: %w", path, err)
	}
	return vars, nil
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// unsetEnv removes every entry for key.
func unsetEnv(env []string, key string) []string {
	prefix := key + "="
	out := env[:0]
	for _, e := range env {
		if !strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

func lookupEnv(env []string, key string) (string, bool) {
	prefix := key + "="
	for _, e := range env {
		if strings.HasPrefix(e, prefix) {
			return e[len(prefix):], true
		}
	}
	return "", false
}
