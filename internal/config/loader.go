package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the project file name looked up by FindConfigFile
// and written by the init command.
const DefaultConfigFile = ".quivotequoi"

// ErrConfigNotFound is returned when the project file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile reads the project file at path: term, output directory,
// members file, rows directory, proxy, reference corrections and extra
// skips. A missing file gives ErrConfigNotFound; whether that is fatal
// depends on whether the user named the file.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, err
	}

	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if f.Corrections == nil {
		f.Corrections = map[string]string{}
	}
	return f, nil
}

// FindConfigFile returns the project file to load, or "" when there is
// none. An explicit configPath is used only if it exists. Otherwise
// .quivotequoi is looked up in the working directory, then in the home
// directory.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if exists(configPath) {
			return configPath
		}
		return ""
	}

	for _, dir := range []func() (string, error){os.Getwd, os.UserHomeDir} {
		base, err := dir()
		if err != nil {
			continue
		}
		if path := filepath.Join(base, DefaultConfigFile); exists(path) {
			return path
		}
	}
	return ""
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
