// Package branding provides compile-time identity values for the CLI.
//
// The values are embedded from branding.yaml via //go:embed, so a fork can
// rename the tool, its home directory and its environment prefix without
// touching Go code.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName          string `yaml:"cli_name"`
	DisplayName      string `yaml:"display_name"`
	Description      string `yaml:"description"`
	HomeDir          string `yaml:"home_dir"`
	EnvPrefix        string `yaml:"env_prefix"`
	DefaultEnv       string `yaml:"default_env"`
	RequirementsFile string `yaml:"requirements_file"`
	MetadataFile     string `yaml:"metadata_file"`
	DotenvFile       string `yaml:"dotenv_file"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:          "ppm",
			DisplayName:      "ppm",
			Description:      "NPM-inspired Python project manager",
			HomeDir:          ".ppm",
			EnvPrefix:        "PPM",
			DefaultEnv:       "ppm_env",
			RequirementsFile: "requirements.txt",
			MetadataFile:     "ppm.yaml",
			DotenvFile:       ".env",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "ppm").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".ppm").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "PPM").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// DefaultEnv returns the environment directory name used when --env is not given.
func DefaultEnv() string { load(); return defaults.DefaultEnv }

// RequirementsFile returns the name of the dependency manifest searched for by init.
func RequirementsFile() string { load(); return defaults.RequirementsFile }

// MetadataFile returns the name of the metadata file written inside each environment.
func MetadataFile() string { load(); return defaults.MetadataFile }

// DotenvFile returns the name of the project-level dotenv file.
func DotenvFile() string { load(); return defaults.DotenvFile }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("python") → "PPM_PYTHON".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
