package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mystor/ppm/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Setting keys.
const (
	KeyEnv      = "env"
	KeyPython   = "python"
	KeyCreator  = "creator"
	KeyPipArgs  = "pip_args"
	KeyDotenv   = "dotenv"
	KeyLogLevel = "log_level"
)

// Environment-creation tools understood by the creator setting.
const (
	CreatorVenv       = "venv"
	CreatorVirtualenv = "virtualenv"
)

// Settings is the resolved configuration for one invocation.
type Settings struct {
	Env      string
	Python   string
	Creator  string
	PipArgs  []string
	Dotenv   bool
	LogLevel string
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Dir returns the path to the ppm config directory (~/.ppm/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.ppm/config.yaml).
// PPM_CONFIG overrides the location.
func FilePath() string {
	if v := os.Getenv(branding.EnvVar("config")); v != "" {
		return v
	}
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// Load resolves settings from the user config file and the environment.
func Load() (*Settings, error) {
	return LoadFile(FilePath())
}

// LoadFile resolves settings from the given config file and the environment.
// A missing file is not an error.
func LoadFile(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	v.SetDefault(KeyEnv, branding.DefaultEnv())
	v.SetDefault(KeyPython, "python3")
	v.SetDefault(KeyCreator, CreatorVenv)
	v.SetDefault(KeyPipArgs, "")
	v.SetDefault(KeyDotenv, true)
	v.SetDefault(KeyLogLevel, "warn")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config file %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("checking config file %s: %w", path, err)
		}
	}

	s := &Settings{
		Env:      strings.TrimSpace(v.GetString(KeyEnv)),
		Python:   strings.TrimSpace(v.GetString(KeyPython)),
		Creator:  strings.ToLower(strings.TrimSpace(v.GetString(KeyCreator))),
		PipArgs:  strings.Fields(v.GetString(KeyPipArgs)),
		Dotenv:   v.GetBool(KeyDotenv),
		LogLevel: strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ValidateEnvName checks that name is a plain directory name on every
// platform, so both separators are rejected regardless of GOOS.
func ValidateEnvName(name string) error {
	switch {
	case name == "":
		return errors.New("environment name must not be empty")
	case name == "." || name == "..":
		return fmt.Errorf("invalid environment name %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("invalid environment name %q: must be a plain directory name", name)
	}
	return nil
}

// Validate checks that every setting holds a usable value.
func (s *Settings) Validate() error {
	if err := ValidateEnvName(s.Env); err != nil {
		return fmt.Errorf("setting %q: %w", KeyEnv, err)
	}
	if s.Python == "" {
		return fmt.Errorf("setting %q must not be empty", KeyPython)
	}
	switch s.Creator {
	case CreatorVenv, CreatorVirtualenv:
	default:
		return fmt.Errorf("setting %q must be %q or %q, got %q", KeyCreator, CreatorVenv, CreatorVirtualenv, s.Creator)
	}
	for _, l := range validLogLevels {
		if s.LogLevel == l {
			return nil
		}
	}
	return fmt.Errorf("setting %q must be one of %s, got %q", KeyLogLevel, strings.Join(validLogLevels, ", "), s.LogLevel)
}
