// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is the prefix for all environment variables.
	EnvPrefix = "SECURE_SECRETS"
	// ProjectConfigFile is the project-level config file name.
	ProjectConfigFile = ".secure-secrets.yaml"
	// GlobalConfigDir is the global config directory name.
	GlobalConfigDir = ".secure-secrets"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Loader loads configuration from files and environment.
type Loader struct {
	projectRoot string
	configFile  string
	skipGlobal  bool
}

// NewLoader creates a new config loader.
func NewLoader() *Loader {
	return &Loader{}
}

// WithProjectRoot sets the project root directory.
func (l *Loader) WithProjectRoot(root string) *Loader {
	l.projectRoot = root
	return l
}

// WithConfigFile replaces the project config file. Unlike the default
// project file, an explicit file must exist.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// SkipGlobal skips loading global config.
func (l *Loader) SkipGlobal() *Loader {
	l.skipGlobal = true
	return l
}

// Load loads configuration with full precedence order:
// 1. Defaults
// 2. Global Config ($HOME/.secure-secrets/config.yaml)
// 3. Project Config (./.secure-secrets.yaml)
// 4. Environment Variables (SECURE_SECRETS_*)
//
// Missing global and project files are skipped; malformed ones are errors.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if globalPath := GetDefaultConfigPath(); !l.skipGlobal && globalPath != "" {
		if err := decodeFile(cfg, globalPath, true); err != nil {
			return nil, err
		}
	}

	if l.configFile != "" {
		if err := decodeFile(cfg, l.configFile, false); err != nil {
			return nil, err
		}
	} else if err := decodeFile(cfg, GetProjectConfigPath(l.projectRoot), true); err != nil {
		return nil, err
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.ProjectDir = l.root()
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path on top of the defaults.
func (l *Loader) LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := decodeFile(cfg, path, false); err != nil {
		return nil, err
	}
	cfg.ProjectDir = l.root()
	return cfg, nil
}

func (l *Loader) root() string {
	if l.projectRoot == "" {
		return "."
	}
	return l.projectRoot
}

// decodeFile decodes path onto cfg so that keys absent from the file keep
// their current value.
func decodeFile(cfg *Config, path string, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &ConfigError{Path: path, Err: err}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
// Format: SECURE_SECRETS_KEY or SECURE_SECRETS_SECTION__KEY
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvPrefix + "_PACKAGE"); v != "" {
		cfg.Package = v
	}
	if v := os.Getenv(EnvPrefix + "_ENCODER"); v != "" {
		cfg.Encoder = v
	}
	if v := os.Getenv(EnvPrefix + "_STAGING_DIR"); v != "" {
		cfg.StagingDir = v
	}
	if v := os.Getenv(EnvPrefix + "_AUDIT_LOG"); v != "" {
		cfg.AuditLog = v
	}
	if v := os.Getenv(EnvPrefix + "_AUTO_STAGE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ConfigError{Field: "auto_stage", Err: err}
		}
		cfg.AutoStage = b
	}

	// Global settings
	if v := os.Getenv(EnvPrefix + "_GLOBAL__LOG_LEVEL"); v != "" {
		cfg.Global.LogLevel = v
	}
	if v := os.Getenv(EnvPrefix + "_GLOBAL__LOG_FORMAT"); v != "" {
		cfg.Global.LogFormat = v
	}

	return nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Path  string
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return "config error in " + e.Path + ": " + e.Err.Error()
	}
	if e.Field != "" {
		return "config error for " + e.Field + ": " + e.Err.Error()
	}
	return "config error: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DetectProjectRoot finds the project root by looking for the config file.
// It falls back to the working directory.
func DetectProjectRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectConfigFile)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return wd, nil
		}
		dir = parent
	}
}
