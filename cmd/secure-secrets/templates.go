// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/secure-secrets/secure-secrets/pkg/errors"
	"github.com/secure-secrets/secure-secrets/pkg/obfuscate"
	"github.com/secure-secrets/secure-secrets/pkg/observability"
	"github.com/secure-secrets/secure-secrets/pkg/templates"
)

func newUnpackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unpack",
		Short: "Extract the bundled templates into the staging directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			written, err := a.unpack()
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func newCopyCppCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "copy-cpp",
		Short: "Copy the native templates into the project's cpp directory",
		Long: `Copy the native templates into the project's cpp directory.

Existing files are kept, since they may already hold injected secrets.
Use --force to replace them with fresh templates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if _, err := a.unpack(); err != nil {
				return err
			}
			results, err := templates.CopyNative(a.cfg.StagingPath(), a.cfg.NativeDirPath(),
				filepath.Base(a.cfg.NativePath()), force)
			if err != nil {
				return err
			}
			for _, r := range results {
				a.reportCopy(cmd, r)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}

func newCopyKotlinCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "copy-kotlin",
		Short: "Copy the Kotlin bridge template into the project's package directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			dest, err := a.bridgeTarget()
			if err != nil {
				return err
			}
			if _, err := a.unpack(); err != nil {
				return err
			}
			r, err := templates.CopyBridge(a.cfg.StagingPath(), dest, force)
			if err != nil {
				return err
			}
			a.reportCopy(cmd, r)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (a *app) unpack() ([]string, error) {
	enc, err := obfuscate.Lookup(a.cfg.Encoder)
	if err != nil {
		return nil, err
	}
	written, err := templates.Unpack(a.cfg.StagingPath(), templates.Data{
		Decoder:    enc.NativeDecoder(),
		NativeFile: filepath.Base(a.cfg.NativePath()),
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("templates unpacked",
		observability.String("staging_dir", a.cfg.StagingPath()),
		observability.Int("files", len(written)))
	return written, nil
}

// bridgeTarget picks the Kotlin file copy-kotlin writes to: the configured
// path, an existing Secrets.kt, or the default path for the package.
func (a *app) bridgeTarget() (string, error) {
	if p := a.cfg.BridgePath(); p != "" {
		return p, nil
	}
	found, err := templates.FindBridgeFile(a.cfg.ProjectDir)
	if err != nil {
		return "", err
	}
	if found != "" {
		return found, nil
	}
	pkg, err := a.requirePackage()
	if err != nil {
		return "", err
	}
	return templates.BridgeDestination(a.cfg.ProjectDir, pkg), nil
}

func (a *app) requirePackage() (string, error) {
	if a.cfg.Package == "" {
		return "", errors.ConfigError("no package provided, pass --package or -P package=<id>", nil)
	}
	return a.cfg.Package, nil
}

func (a *app) reportCopy(cmd *cobra.Command, r templates.CopyResult) {
	if r.DirCreated {
		a.logger.Info("created directory", observability.String("path", r.Dest))
	}
	if r.Action == templates.Skipped {
		a.logger.Warn("file already exists, use --force to replace it", observability.String("path", r.Dest))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Action, r.Dest)
}
