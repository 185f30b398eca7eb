// Package config manages user-level settings stored at ~/.ppm/config.yaml.
// Every key can be overridden by a PPM_-prefixed environment variable; the
// resolved values drive which interpreter and creation tool init uses, the
// default environment name, and the diagnostic log level.
package config
