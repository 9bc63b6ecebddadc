// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package injector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/secure-secrets/secure-secrets/pkg/codegen"
	"github.com/secure-secrets/secure-secrets/pkg/config"
	"github.com/secure-secrets/secure-secrets/pkg/errors"
	"github.com/secure-secrets/secure-secrets/pkg/merge"
	"github.com/secure-secrets/secure-secrets/pkg/obfuscate"
	"github.com/secure-secrets/secure-secrets/pkg/observability"
	"github.com/secure-secrets/secure-secrets/pkg/secretstore"
	"github.com/secure-secrets/secure-secrets/pkg/templates"
	"github.com/secure-secrets/secure-secrets/pkg/variant"
)

// planned is one secret ready to merge.
type planned struct {
	alias    string
	accessor string
	literal  string
}

// Run injects every declared secret for req.Variant.
//
// Nothing is written unless every secret has a value for the variant's
// build type key, both target files exist and every merge succeeds. All
// secrets are merged in memory and both files are committed together while
// locked.
func (i *Injector) Run(ctx context.Context, req Request) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.NewString(), Variant: req.Variant}
	log := i.logger.With(
		observability.String("run_id", report.RunID),
		observability.String("variant", req.Variant),
	)

	packageID, err := i.packageID(req)
	if err != nil {
		return nil, err
	}
	report.Package = packageID

	res := variant.Resolve(req.Variant, i.cfg.Mapping)
	report.BuildTypeKey = res.BuildTypeKey
	report.Mapped = res.Mapped
	if !res.Mapped {
		log.Debug("variant not listed in build_types_name, using it as the build type key",
			observability.String("build_type_key", res.BuildTypeKey))
	}

	entries, err := secretstore.Scan(i.props)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		log.Warn("no " + secretstore.KeyMarker + " properties declared, nothing to inject")
		report.Duration = time.Since(start)
		return report, nil
	}

	secrets, err := secretstore.ResolveAll(entries, res.BuildTypeKey, i.props)
	if err != nil {
		return nil, err
	}

	report.NativePath = i.cfg.NativePath()
	report.BridgePath, err = i.bridgePath(packageID)
	if err != nil {
		return nil, err
	}

	err = i.engine.Batch(ctx, []string{report.NativePath, report.BridgePath}, func(tx *merge.Tx) error {
		if i.cfg.AutoStage {
			staged, err := i.stage(report.NativePath, report.BridgePath)
			if err != nil {
				return err
			}
			report.Staged = staged
			for _, p := range staged {
				log.Info("staged target file from templates", observability.String("path", p))
			}
		}
		if err := merge.CheckTargets(report.NativePath, report.BridgePath); err != nil {
			return err
		}

		native, err := tx.Read(report.NativePath, merge.NativeStageCommand)
		if err != nil {
			return err
		}
		bridge, err := tx.Read(report.BridgePath, merge.BridgeStageCommand)
		if err != nil {
			return err
		}
		nativePackage := packageID
		if declared := merge.BridgePackage(bridge); declared != "" && declared != packageID {
			log.Warn("bridge file declares another package, using it for native symbols",
				observability.String("declared", declared),
				observability.String("configured", packageID))
			nativePackage = declared
		}

		plan, err := i.plan(secrets, res.Suffix, nativePackage)
		if err != nil {
			return err
		}

		nativeOut, bridgeOut := native, bridge
		results := make([]SecretResult, 0, len(plan))
		for _, p := range plan {
			if err := ctx.Err(); err != nil {
				return err
			}
			var result SecretResult
			nativeOut, bridgeOut, result, err = apply(nativeOut, bridgeOut, report.BridgePath, nativePackage, p)
			if err != nil {
				return err
			}
			results = append(results, result)
		}

		var changes []merge.Change
		if nativeOut != native {
			changes = append(changes, merge.Change{Path: report.NativePath, Content: nativeOut})
		}
		if bridgeOut != bridge {
			changes = append(changes, merge.Change{Path: report.BridgePath, Content: bridgeOut})
		}
		if err := tx.Commit(changes...); err != nil {
			return err
		}

		report.Secrets = results
		for _, r := range results {
			i.notify(ctx, log, report, res.BuildTypeKey, r)
		}
		return nil
	})
	report.Duration = time.Since(start)
	if err != nil {
		return report, err
	}

	log.Info("injection finished",
		observability.Int("secrets", len(report.Secrets)),
		observability.Bool("changed", report.Changed()),
		observability.Duration("duration", report.Duration))
	return report, nil
}

// RunAll runs several variants concurrently. Runs touching the same files
// serialize on the file locks.
func (i *Injector) RunAll(ctx context.Context, variants []string, packageID string) ([]*Report, error) {
	if err := checkSuffixes(variants, i.cfg.Mapping); err != nil {
		return nil, err
	}

	reports := make([]*Report, len(variants))
	g, ctx := errgroup.WithContext(ctx)
	for idx, name := range variants {
		g.Go(func() error {
			r, err := i.Run(ctx, Request{Variant: name, Package: packageID})
			if err != nil {
				return fmt.Errorf("variant %s: %w", name, err)
			}
			reports[idx] = r
			return nil
		})
	}
	err := g.Wait()
	return reports, err
}

// checkSuffixes rejects variant sets where two build type keys would write
// the same accessor, since the last run would silently win.
func checkSuffixes(variants []string, m variant.Mapping) error {
	keyBySuffix := make(map[string]string, len(variants))
	for _, name := range variants {
		res := variant.Resolve(name, m)
		// suffixes are compared as they end up in the accessor name
		suffix := codegen.AccessorName("", res.Suffix)
		if prev, ok := keyBySuffix[suffix]; ok && prev != res.BuildTypeKey {
			return errors.ConfigError(fmt.Sprintf(
				"variants with build type keys %q and %q share suffix %q, set build_types_suffix",
				prev, res.BuildTypeKey, suffix), nil)
		}
		keyBySuffix[suffix] = res.BuildTypeKey
	}
	return nil
}

func (i *Injector) plan(secrets []secretstore.ResolvedSecret, suffix, packageID string) ([]planned, error) {
	plan := make([]planned, 0, len(secrets))
	for _, s := range secrets {
		accessor := codegen.AccessorName(s.DeclaredName, suffix)
		literal, err := i.encoder.Encode(s.Plaintext, packageID, codegen.Getter(accessor))
		if err != nil {
			return nil, errors.EncodingError("failed to encode "+s.AliasID, err)
		}
		plan = append(plan, planned{
			alias:    s.AliasID,
			accessor: accessor,
			literal:  literal,
		})
	}
	return plan, nil
}

// apply folds one secret into the in-memory native and bridge contents.
func apply(native, bridge, bridgePath, packageID string, p planned) (string, string, SecretResult, error) {
	result := SecretResult{
		Alias:    p.alias,
		Accessor: codegen.Getter(p.accessor),
		Call:     fmt.Sprintf("%s().%s()", codegen.ClassName, codegen.Getter(p.accessor)),
	}

	native, result.Native = merge.MergeNativeContent(native, packageID, p.accessor, p.literal)
	bridge, outcome, err := merge.MergeBridgeContent(bridgePath, bridge, packageID, p.accessor)
	if err != nil {
		return native, bridge, result, err
	}
	result.Bridge = outcome
	return native, bridge, result, nil
}

func (i *Injector) notify(ctx context.Context, log observability.Logger, report *Report, buildTypeKey string, r SecretResult) {
	fields := []observability.Field{
		observability.String("accessor", r.Accessor),
		observability.String("native", r.Native.String()),
		observability.String("bridge", r.Bridge.String()),
	}
	if r.Native == merge.Duplicate && r.Bridge == merge.Duplicate {
		log.Info("secret already added", fields...)
	} else {
		log.Info("You can now get your secret key by calling : "+r.Call, fields...)
	}

	err := i.auditor.LogInjection(ctx, &observability.AuditEvent{
		RunID:    report.RunID,
		Variant:  report.Variant,
		Action:   r.Native.String(),
		Accessor: r.Accessor,
		Success:  true,
		Details: map[string]string{
			"alias":          r.Alias,
			"bridge":         r.Bridge.String(),
			"build_type_key": buildTypeKey,
		},
	})
	if err != nil {
		log.Warn("failed to write audit event", observability.Err(err))
	}
}

func (i *Injector) packageID(req Request) (string, error) {
	id := req.Package
	if id == "" {
		id = i.cfg.Package
	}
	if id == "" {
		return "", errors.ConfigError(
			"no package provided, pass -P package=<id> or set package in "+config.ProjectConfigFile, nil)
	}
	if err := obfuscate.ValidatePackage(id); err != nil {
		return "", err
	}
	return id, nil
}

// bridgePath returns the configured bridge file, the one found in the main
// source set, or the default location for packageID.
func (i *Injector) bridgePath(packageID string) (string, error) {
	if p := i.cfg.BridgePath(); p != "" {
		return p, nil
	}
	found, err := templates.FindBridgeFile(i.cfg.ProjectDir)
	if err != nil {
		return "", err
	}
	if found != "" {
		return found, nil
	}
	return templates.BridgeDestination(i.cfg.ProjectDir, packageID), nil
}

// stage copies the templates for whichever target file is missing.
func (i *Injector) stage(nativePath, bridgePath string) ([]string, error) {
	_, nativeErr := os.Stat(nativePath)
	_, bridgeErr := os.Stat(bridgePath)
	if !os.IsNotExist(nativeErr) && !os.IsNotExist(bridgeErr) {
		return nil, nil
	}

	staging := i.cfg.StagingPath()
	data := templates.Data{Decoder: i.encoder.NativeDecoder(), NativeFile: filepath.Base(nativePath)}
	if _, err := templates.Unpack(staging, data); err != nil {
		return nil, err
	}

	var staged []string
	if os.IsNotExist(nativeErr) {
		results, err := templates.CopyNative(staging, filepath.Dir(nativePath), data.NativeFile, false)
		if err != nil {
			return staged, err
		}
		for _, r := range results {
			if r.Action == templates.Copied {
				staged = append(staged, r.Dest)
			}
		}
	}
	if os.IsNotExist(bridgeErr) {
		r, err := templates.CopyBridge(staging, bridgePath, false)
		if err != nil {
			return staged, err
		}
		if r.Action == templates.Copied {
			staged = append(staged, r.Dest)
		}
	}
	return staged, nil
}
