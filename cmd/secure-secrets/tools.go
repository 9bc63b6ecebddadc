// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/secure-secrets/secure-secrets/pkg/errors"
	"github.com/secure-secrets/secure-secrets/pkg/merge"
	"github.com/secure-secrets/secure-secrets/pkg/obfuscate"
	"github.com/secure-secrets/secure-secrets/pkg/templates"
)

func newObfuscateCmd(a *app) *cobra.Command {
	var key, accessor string
	cmd := &cobra.Command{
		Use:   "obfuscate",
		Short: "Print the obfuscated native literal for a key",
		Long: `Print the obfuscated native literal for a key.

The key comes from --key or -P key=<value>; the package from --package,
-P package=<id> or the config file. Pass --accessor with the getter the
literal belongs to (for example getApiTokenDev) to get the literal inject
writes for it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if key == "" {
				key = a.props["key"]
			}
			if key == "" {
				return errors.ConfigError("no key provided, pass --key or -P key=<value>", nil)
			}
			pkg, err := a.requirePackage()
			if err != nil {
				return err
			}

			enc, err := obfuscate.Lookup(a.cfg.Encoder)
			if err != nil {
				return err
			}
			literal, err := enc.Encode(key, pkg, accessor)
			if err != nil {
				return errors.EncodingError("failed to encode key", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), literal)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "plaintext to obfuscate")
	cmd.Flags().StringVar(&accessor, "accessor", "", "getter name the literal is salted with")
	return cmd
}

func newPackageNameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "package-name",
		Short: "Print the resolved application package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			pkg, err := a.requirePackage()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pkg)
			return nil
		},
	}
}

func newFindKotlinFileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find-kotlin-file",
		Short: "Print the path of the project's Secrets.kt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			path := a.cfg.BridgePath()
			if path == "" {
				found, err := templates.FindBridgeFile(a.cfg.ProjectDir)
				if err != nil {
					return err
				}
				path = found
			}
			if path == "" {
				path = filepath.Join(a.cfg.ProjectDir, templates.AppMainFolder, "**", templates.BridgeFileName)
			}
			if _, err := os.Stat(path); err != nil {
				return errors.MissingTargetFile(path, merge.BridgeStageCommand)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
