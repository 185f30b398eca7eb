// Package platform hides the per-OS layout of a Python virtual environment.
// On Unix systems executables live under bin/ with no suffix; on Windows
// they live under Scripts/ and carry an .exe suffix.
package platform
