// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package config provides configuration management for secure-secrets.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Global Config: $HOME/.secure-secrets/config.yaml
// 3. Project Config: <project>/.secure-secrets.yaml (or --config)
// 4. Environment Variables: SECURE_SECRETS_*
// 5. Command-line flags (applied by the CLI)
package config

import (
	"path/filepath"

	"github.com/secure-secrets/secure-secrets/pkg/templates"
	"github.com/secure-secrets/secure-secrets/pkg/variant"
)

// Config represents the complete application configuration.
type Config struct {
	// Package is the application id; the -Ppackage property overrides it.
	Package string `yaml:"package" validate:"omitempty,jvmpackage"`

	// Index-aligned variant → build type key → suffix lists.
	Mapping variant.Mapping `yaml:",inline"`

	// Variants processed by "inject --all". Defaults to build_types_name.
	Variants []string `yaml:"variants" validate:"dive,required"`

	NativeDir  string `yaml:"native_dir" validate:"required"`
	NativeFile string `yaml:"native_file" validate:"required"`

	// BridgeFile pins the Kotlin file; when empty it is searched for under
	// src/main and falls back to src/main/java/<package>/Secrets.kt.
	BridgeFile string `yaml:"bridge_file"`

	StagingDir    string   `yaml:"staging_dir" validate:"required"`
	Encoder       string   `yaml:"encoder" validate:"required,encoder"`
	PropertyFiles []string `yaml:"property_files"`

	// AutoStage copies missing target files from the templates before injecting.
	AutoStage bool `yaml:"auto_stage"`

	// AuditLog is a JSON-lines file recording every injection; empty disables it.
	AuditLog string `yaml:"audit_log"`

	// LockDir holds advisory lock files; defaults to <staging_dir>/locks.
	LockDir string `yaml:"lock_dir"`

	Global GlobalConfig `yaml:"global"`

	// ProjectDir is the Android module root all relative paths resolve against.
	ProjectDir string `yaml:"-"`
}

// GlobalConfig contains global application settings.
type GlobalConfig struct {
	LogLevel  string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" validate:"omitempty,oneof=console json"`
}

// NativePath returns the absolute-or-project-relative native file path.
func (c *Config) NativePath() string {
	return templates.NativeDestination(c.ProjectDir, c.NativeDir, c.NativeFile)
}

// NativeDirPath returns the directory native templates are copied into,
// which is the directory holding NativePath.
func (c *Config) NativeDirPath() string {
	return filepath.Dir(c.NativePath())
}

// StagingPath returns the template staging directory.
func (c *Config) StagingPath() string {
	return c.resolve(c.StagingDir)
}

// LockPath returns the lock directory.
func (c *Config) LockPath() string {
	if c.LockDir != "" {
		return c.resolve(c.LockDir)
	}
	return filepath.Join(c.StagingPath(), "locks")
}

// AuditPath returns the audit log path, or "" when auditing is off.
func (c *Config) AuditPath() string {
	if c.AuditLog == "" {
		return ""
	}
	return c.resolve(c.AuditLog)
}

// BridgePath returns the pinned bridge file, or "" when it must be discovered.
func (c *Config) BridgePath() string {
	if c.BridgeFile == "" {
		return ""
	}
	return c.resolve(c.BridgeFile)
}

// VariantList returns the variants processed by "inject --all".
func (c *Config) VariantList() []string {
	if len(c.Variants) > 0 {
		return c.Variants
	}
	return c.Mapping.BuildTypesName
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ProjectDir, p)
}
