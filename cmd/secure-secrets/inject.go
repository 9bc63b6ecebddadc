// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/secure-secrets/secure-secrets/pkg/errors"
	"github.com/secure-secrets/secure-secrets/pkg/injector"
	"github.com/secure-secrets/secure-secrets/pkg/observability"
	"github.com/secure-secrets/secure-secrets/pkg/variant"
)

func newInjectCmd(a *app) *cobra.Command {
	var (
		variantName string
		all         bool
	)
	cmd := &cobra.Command{
		Use:   "inject",
		Short: "Inject every declared secret for a build variant",
		Long: `Inject every declared secret for a build variant.

For each SECURE_KEY_<ALIAS> property the value SECURE_VALUE_<key>_<ALIAS>
is obfuscated and merged into the native file, and a matching external
accessor is declared in Secrets.kt. Re-running is a no-op.`,
		Example: `  secure-secrets inject --variant debug -P package=com.example.app
  secure-secrets inject --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if variantName == "" && !all {
				return errors.ConfigError("pass --variant <name> or --all", nil)
			}
			if err := a.load(); err != nil {
				return err
			}

			var opts []injector.Option
			opts = append(opts, injector.WithLogger(a.logger))
			if path := a.cfg.AuditPath(); path != "" {
				auditor, err := observability.OpenAuditFile(path)
				if err != nil {
					return errors.IOError("failed to open audit log", err)
				}
				defer auditor.Close()
				opts = append(opts, injector.WithAuditor(auditor))
			}

			inj, err := injector.New(a.cfg, a.props, opts...)
			if err != nil {
				return err
			}

			var reports []*injector.Report
			if all {
				variants := a.cfg.VariantList()
				if len(variants) == 0 {
					return errors.ConfigError("no variants configured, set build_types_name or variants", nil)
				}
				reports, err = inj.RunAll(cmd.Context(), variants, "")
			} else {
				var r *injector.Report
				r, err = inj.Run(cmd.Context(), injector.Request{Variant: variantName})
				reports = append(reports, r)
			}

			printReports(cmd.OutOrStdout(), reports)
			return err
		},
	}
	cmd.Flags().StringVar(&variantName, "variant", "", "build variant to inject, e.g. debug")
	cmd.Flags().BoolVar(&all, "all", false, "inject every configured variant")
	cmd.MarkFlagsMutuallyExclusive("variant", "all")
	return cmd
}

func printReports(out io.Writer, reports []*injector.Report) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, r := range reports {
		if r == nil {
			continue
		}
		for _, s := range r.Secrets {
			fmt.Fprintf(w, "%s\t%s\tnative=%s\tbridge=%s\n", r.Variant, s.Call, s.Native, s.Bridge)
		}
	}
	_ = w.Flush()
}

func newVariantsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List configured variants with their build type key and suffix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VARIANT\tKEY\tSUFFIX")
			for _, name := range a.cfg.VariantList() {
				res := variant.Resolve(name, a.cfg.Mapping)
				suffix := res.Suffix
				if !res.HasSuffix {
					suffix = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", res.Variant, res.BuildTypeKey, suffix)
			}
			return w.Flush()
		},
	}
}
