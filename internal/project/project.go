package project

import (
	"path/filepath"

	"github.com/mystor/ppm/internal/branding"
)

// Project describes the directory a command operates on.
type Project struct {
	// Dir is the project root.
	Dir string
	// Requirements is the absolute path of requirements.txt, or empty when
	// no ancestor holds one.
	Requirements string
}

// Locate resolves the project for a command started in cwd. The root is the
// directory of the nearest requirements.txt; without one it is cwd itself.
func Locate(cwd string, lookup Lookup) *Project {
	cwd = filepath.Clean(cwd)
	if req, ok := FindUp(cwd, branding.RequirementsFile(), lookup); ok {
		return &Project{Dir: filepath.Dir(req), Requirements: req}
	}
	return &Project{Dir: cwd}
}

// HasRequirements reports whether a requirements file was found.
func (p *Project) HasRequirements() bool {
	return p.Requirements != ""
}

// EnvPath returns where an environment called name lives inside the project.
func (p *Project) EnvPath(name string) string {
	return filepath.Join(p.Dir, name)
}

// DotenvPath returns the project-level dotenv file path.
func (p *Project) DotenvPath() string {
	return filepath.Join(p.Dir, branding.DotenvFile())
}
