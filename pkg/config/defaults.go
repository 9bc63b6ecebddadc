// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package config

import (
	"os"
	"path/filepath"

	"github.com/secure-secrets/secure-secrets/pkg/obfuscate"
	"github.com/secure-secrets/secure-secrets/pkg/templates"
)

// DefaultConfig returns the default configuration.
// These values are used when no config file is present.
func DefaultConfig() *Config {
	return &Config{
		NativeDir:     filepath.Join(templates.AppMainFolder, "cpp"),
		NativeFile:    templates.NativeFileName,
		StagingDir:    filepath.Join("build", "secure-secrets-tmp"),
		Encoder:       obfuscate.DefaultEncoder,
		PropertyFiles: DefaultPropertyFiles(),
		Global:        DefaultGlobalConfig(),
		ProjectDir:    ".",
	}
}

// DefaultPropertyFiles returns the gradle property files read by default.
func DefaultPropertyFiles() []string {
	return []string{"gradle.properties", "local.properties"}
}

// DefaultGlobalConfig returns default global configuration.
func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		LogLevel: "info",
	}
}

// GetDefaultConfigPath returns the global config file path, or "" when the
// home directory is unknown.
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return ""
	}
	return filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFile)
}

// GetProjectConfigPath returns the project config file path.
func GetProjectConfigPath(projectRoot string) string {
	if projectRoot == "" {
		projectRoot = "."
	}
	return filepath.Join(projectRoot, ProjectConfigFile)
}
