// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/secure-secrets/secure-secrets/pkg/config"
	"github.com/secure-secrets/secure-secrets/pkg/observability"
	"github.com/secure-secrets/secure-secrets/pkg/secretstore"
	"github.com/secure-secrets/secure-secrets/pkg/version"
)

// app holds the global flags and whatever load() derives from them.
type app struct {
	out     io.Writer
	errOut  io.Writer // nil means stderr with terminal detection
	environ func() []string

	configFile  string
	projectDir  string
	logLevel    string
	logFormat   string
	packageID   string
	assignments []string

	cfg    *config.Config
	props  secretstore.Properties
	logger observability.Logger
}

func newApp() *app {
	return &app{out: os.Stdout, environ: os.Environ}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   version.Name,
		Short: "Build-time secret injection for Android NDK projects",
		Long: `secure-secrets moves API keys out of Kotlin sources and into a native
library, stored as obfuscated literals behind JNI accessors.

Secrets are declared in gradle.properties or local.properties:

  SECURE_KEY_API_TOKEN=declared
  SECURE_VALUE_dev_API_TOKEN=...
  SECURE_VALUE_prod_API_TOKEN=...

and injected per build variant with "secure-secrets inject --variant debug".`,
		Version:       version.FullString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(a.out)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is <project>/"+config.ProjectConfigFile+")")
	flags.StringVarP(&a.projectDir, "project-dir", "C", "", "Android module root (default: nearest directory with a config file)")
	flags.StringArrayVarP(&a.assignments, "property", "P", nil, "set a build property, gradle style: -P key=value (repeatable)")
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "", "console or json (default: console on a terminal)")
	flags.StringVar(&a.packageID, "package", "", "application package, overrides -P package and the config file")

	rootCmd.AddCommand(
		newUnpackCmd(a),
		newCopyCppCmd(a),
		newCopyKotlinCmd(a),
		newObfuscateCmd(a),
		newPackageNameCmd(a),
		newFindKotlinFileCmd(a),
		newInjectCmd(a),
		newVariantsCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// load resolves configuration and build properties. Precedence for the
// package is --package, then -P package=, then config and environment.
func (a *app) load() error {
	root := a.projectDir
	if root == "" {
		detected, err := config.DetectProjectRoot()
		if err != nil {
			return err
		}
		root = detected
	}

	loader := config.NewLoader().WithProjectRoot(root)
	if a.configFile != "" {
		loader.WithConfigFile(a.configFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	assigned, err := secretstore.ParseAssignments(a.assignments)
	if err != nil {
		return err
	}
	if a.packageID != "" {
		cfg.Package = a.packageID
	} else if p := assigned["package"]; p != "" {
		cfg.Package = p
	}
	if a.logLevel != "" {
		cfg.Global.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Global.LogFormat = a.logFormat
	}

	if err := config.NewValidator().Validate(cfg); err != nil {
		return err
	}

	fileProps, loaded, err := secretstore.LoadFiles(cfg.ProjectDir, cfg.PropertyFiles)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.props = secretstore.Merge(fileProps, secretstore.FromEnviron(a.environ()), assigned)
	if a.errOut != nil {
		format := cfg.Global.LogFormat
		if format == "" {
			format = "console"
		}
		a.logger = observability.NewLoggerWithWriter(cfg.Global.LogLevel, format, a.errOut)
	} else {
		a.logger = observability.NewLogger(cfg.Global.LogLevel, cfg.Global.LogFormat)
	}

	a.logger.Debug("configuration loaded",
		observability.String("project_dir", cfg.ProjectDir),
		observability.Strings("property_files", loaded),
		observability.Int("properties", len(a.props)))
	return nil
}
