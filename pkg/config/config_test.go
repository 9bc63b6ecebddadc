// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/secure-secrets/secure-secrets/pkg/config"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, config.ProjectConfigFile)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

// TestDefaultConfig tests the default configuration.
func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg.Encoder != "xorshift" {
		t.Errorf("Expected default encoder 'xorshift', got '%s'", cfg.Encoder)
	}

	if cfg.NativeFile != "secrets.cpp" {
		t.Errorf("Expected default native file 'secrets.cpp', got '%s'", cfg.NativeFile)
	}

	if cfg.NativeDir != filepath.Join("src", "main", "cpp") {
		t.Errorf("Expected default native dir 'src/main/cpp', got '%s'", cfg.NativeDir)
	}

	if len(cfg.PropertyFiles) != 2 {
		t.Errorf("Expected 2 default property files, got %d", len(cfg.PropertyFiles))
	}

	if cfg.Global.LogLevel != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", cfg.Global.LogLevel)
	}

	if err := config.NewValidator().Validate(cfg); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

// TestLoadFromPath tests loading config from a file.
func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeConfig(t, tmpDir, `
package: com.example.app
build_types_name: [debug, release]
build_type_keys: [dev, prod]
build_types_suffix: [Dev, ""]
native_dir: app/src/main/cpp
encoder: plain
global:
  log_level: debug
`)

	cfg, err := config.NewLoader().WithProjectRoot(tmpDir).LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Package != "com.example.app" {
		t.Errorf("Expected package 'com.example.app', got '%s'", cfg.Package)
	}
	if len(cfg.Mapping.BuildTypeKeys) != 2 || cfg.Mapping.BuildTypeKeys[1] != "prod" {
		t.Errorf("Expected build_type_keys [dev prod], got %v", cfg.Mapping.BuildTypeKeys)
	}
	if cfg.NativeDir != "app/src/main/cpp" {
		t.Errorf("Expected native dir override, got '%s'", cfg.NativeDir)
	}
	// Keys absent from the file keep their defaults.
	if cfg.NativeFile != "secrets.cpp" {
		t.Errorf("Expected default native file to survive, got '%s'", cfg.NativeFile)
	}
	if cfg.Encoder != "plain" {
		t.Errorf("Expected encoder 'plain', got '%s'", cfg.Encoder)
	}
	if cfg.Global.LogLevel != "debug" {
		t.Errorf("Expected log level 'debug', got '%s'", cfg.Global.LogLevel)
	}
	if cfg.ProjectDir != tmpDir {
		t.Errorf("Expected project dir %s, got %s", tmpDir, cfg.ProjectDir)
	}
}

// TestLoadMissingProjectConfig tests that a missing project file falls back to defaults.
func TestLoadMissingProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := config.NewLoader().WithProjectRoot(tmpDir).SkipGlobal().Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Encoder != "xorshift" {
		t.Errorf("Expected default encoder, got '%s'", cfg.Encoder)
	}
}

// TestLoadGlobalConfig tests that the global file sits between defaults and
// the project file.
func TestLoadGlobalConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	globalPath := config.GetDefaultConfigPath()
	if globalPath != filepath.Join(home, config.GlobalConfigDir, config.GlobalConfigFile) {
		t.Fatalf("Unexpected global config path %s", globalPath)
	}
	if err := os.MkdirAll(filepath.Dir(globalPath), 0755); err != nil {
		t.Fatalf("Failed to create global config dir: %v", err)
	}
	global := "encoder: plain\npackage: com.example.global\n"
	if err := os.WriteFile(globalPath, []byte(global), 0644); err != nil {
		t.Fatalf("Failed to write global config: %v", err)
	}

	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "package: com.example.project\n")

	cfg, err := config.NewLoader().WithProjectRoot(tmpDir).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Encoder != "plain" {
		t.Errorf("Expected global encoder 'plain', got '%s'", cfg.Encoder)
	}
	if cfg.Package != "com.example.project" {
		t.Errorf("Expected project package to win, got '%s'", cfg.Package)
	}

	cfg, err = config.NewLoader().WithProjectRoot(tmpDir).SkipGlobal().Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Encoder != "xorshift" {
		t.Errorf("Expected global file skipped, got encoder '%s'", cfg.Encoder)
	}
}

// TestLoadExplicitConfigMustExist tests that --config files are not optional.
func TestLoadExplicitConfigMustExist(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := config.NewLoader().
		WithProjectRoot(tmpDir).
		WithConfigFile(filepath.Join(tmpDir, "nope.yaml")).
		SkipGlobal().
		Load()

	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
}

// TestLoadMalformedConfig tests that a malformed project file is reported.
func TestLoadMalformedConfig(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "package: [unterminated")

	_, err := config.NewLoader().WithProjectRoot(tmpDir).SkipGlobal().Load()
	if err == nil {
		t.Fatal("Expected error for malformed config")
	}
}

// TestEnvOverrides tests environment variable overrides.
func TestEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "package: com.example.file\n")

	t.Setenv("SECURE_SECRETS_PACKAGE", "com.example.env")
	t.Setenv("SECURE_SECRETS_AUTO_STAGE", "true")
	t.Setenv("SECURE_SECRETS_GLOBAL__LOG_LEVEL", "warn")

	cfg, err := config.NewLoader().WithProjectRoot(tmpDir).SkipGlobal().Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Package != "com.example.env" {
		t.Errorf("Expected env package to win, got '%s'", cfg.Package)
	}
	if !cfg.AutoStage {
		t.Error("Expected auto_stage from env")
	}
	if cfg.Global.LogLevel != "warn" {
		t.Errorf("Expected log level 'warn', got '%s'", cfg.Global.LogLevel)
	}
}

// TestEnvOverridesInvalidBool tests a malformed boolean override.
func TestEnvOverridesInvalidBool(t *testing.T) {
	t.Setenv("SECURE_SECRETS_AUTO_STAGE", "maybe")

	_, err := config.NewLoader().WithProjectRoot(t.TempDir()).SkipGlobal().Load()

	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
	if cfgErr.Field != "auto_stage" {
		t.Errorf("Expected field 'auto_stage', got '%s'", cfgErr.Field)
	}
}

// TestValidator tests configuration validation.
func TestValidator(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*config.Config)
		wantField string
	}{
		{
			name:   "valid",
			modify: func(c *config.Config) {},
		},
		{
			name:      "bad log level",
			modify:    func(c *config.Config) { c.Global.LogLevel = "verbose" },
			wantField: "global.log_level",
		},
		{
			name:      "bad package",
			modify:    func(c *config.Config) { c.Package = "com..example" },
			wantField: "package",
		},
		{
			name:      "unknown encoder",
			modify:    func(c *config.Config) { c.Encoder = "rot13" },
			wantField: "encoder",
		},
		{
			name:      "empty native file",
			modify:    func(c *config.Config) { c.NativeFile = "" },
			wantField: "native_file",
		},
		{
			name: "misaligned mapping",
			modify: func(c *config.Config) {
				c.Mapping.BuildTypesName = []string{"debug", "release"}
				c.Mapping.BuildTypeKeys = []string{"dev"}
			},
			wantField: "build_types_name",
		},
		{
			name: "unknown variant",
			modify: func(c *config.Config) {
				c.Mapping.BuildTypesName = []string{"debug"}
				c.Mapping.BuildTypeKeys = []string{"dev"}
				c.Variants = []string{"staging"}
			},
			wantField: "variants",
		},
	}

	v := config.NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.modify(cfg)

			err := v.Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Expected valid config, got %v", err)
				}
				return
			}

			var vErr *config.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("Expected field '%s', got '%s'", tt.wantField, vErr.Field)
			}
		})
	}
}

// TestPaths tests project-relative path resolution.
func TestPaths(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ProjectDir = "/work/app"

	if got := cfg.NativePath(); got != filepath.Join("/work/app", "src", "main", "cpp", "secrets.cpp") {
		t.Errorf("Unexpected native path %s", got)
	}
	if got := cfg.NativeDirPath(); got != filepath.Join("/work/app", "src", "main", "cpp") {
		t.Errorf("Unexpected native dir %s", got)
	}
	if got := cfg.LockPath(); got != filepath.Join("/work/app", "build", "secure-secrets-tmp", "locks") {
		t.Errorf("Unexpected lock path %s", got)
	}
	if got := cfg.AuditPath(); got != "" {
		t.Errorf("Expected audit disabled, got %s", got)
	}
	if got := cfg.BridgePath(); got != "" {
		t.Errorf("Expected bridge discovery, got %s", got)
	}

	cfg.BridgeFile = "/abs/Secrets.kt"
	if got := cfg.BridgePath(); got != "/abs/Secrets.kt" {
		t.Errorf("Expected absolute bridge path kept, got %s", got)
	}

	cfg.NativeFile = "jni/keys.cpp"
	if got := cfg.NativeDirPath(); got != filepath.Join("/work/app", "src", "main", "cpp", "jni") {
		t.Errorf("Expected native dir to follow native_file, got %s", got)
	}
}

// TestVariantList tests the --all variant list fallback.
func TestVariantList(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Mapping.BuildTypesName = []string{"debug", "release"}

	if got := cfg.VariantList(); len(got) != 2 {
		t.Errorf("Expected build_types_name fallback, got %v", got)
	}

	cfg.Variants = []string{"release"}
	if got := cfg.VariantList(); len(got) != 1 || got[0] != "release" {
		t.Errorf("Expected explicit variants, got %v", got)
	}
}
