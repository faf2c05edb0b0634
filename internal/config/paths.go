package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DotDir returns the aashub directory under the user's home, ~/.aashub.
func DotDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return "", errors.New("cannot determine user home directory")
	}
	return filepath.Join(home, ".aashub"), nil
}

// Path returns the default config file path, ~/.aashub/config.yaml.
func Path() (string, error) {
	dir, err := DotDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
