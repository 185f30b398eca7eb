// Package venv manages ppm's virtual environments: locating an existing
// environment by walking up from a directory, provisioning a new one through
// the external creation and installation tools, and reading and writing the
// ppm.yaml metadata file kept inside each environment.
package venv
