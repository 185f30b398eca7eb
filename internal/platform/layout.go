package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// BinDirName returns the name of the directory holding an environment's
// executables.
func BinDirName() string {
	return binDirName(runtime.GOOS)
}

func binDirName(goos string) string {
	if goos == "windows" {
		return "Scripts"
	}
	return "bin"
}

// ExecutableName appends the platform's executable suffix to name.
func ExecutableName(name string) string {
	return executableName(runtime.GOOS, name)
}

func executableName(goos, name string) string {
	if goos == "windows" && !strings.HasSuffix(strings.ToLower(name), ".exe") {
		return name + ".exe"
	}
	return name
}

// BinDir returns the executables directory of the environment at envRoot.
func BinDir(envRoot string) string {
	return filepath.Join(envRoot, BinDirName())
}

// Interpreter returns the path of the python executable inside envRoot.
func Interpreter(envRoot string) string {
	return filepath.Join(BinDir(envRoot), ExecutableName("python"))
}

// PrependPath returns pathList with dir placed first, using the OS list
// separator. An empty pathList yields dir alone.
func PrependPath(dir, pathList string) string {
	if pathList == "" {
		return dir
	}
	return dir + string(os.PathListSeparator) + pathList
}
