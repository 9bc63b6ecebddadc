// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package injector runs the per-variant injection: resolve the variant,
// collect the declared secrets, obfuscate them and merge the generated
// accessors into the native and bridge files.
package injector

import (
	"time"

	"github.com/secure-secrets/secure-secrets/pkg/config"
	"github.com/secure-secrets/secure-secrets/pkg/merge"
	"github.com/secure-secrets/secure-secrets/pkg/obfuscate"
	"github.com/secure-secrets/secure-secrets/pkg/observability"
	"github.com/secure-secrets/secure-secrets/pkg/secretstore"
)

// Request selects what one run injects.
type Request struct {
	// Variant is the build variant, e.g. "debug" or "prodRelease".
	Variant string
	// Package overrides the configured package when set.
	Package string
}

// SecretResult is what happened to one secret.
type SecretResult struct {
	Alias    string
	Accessor string
	// Call is the Kotlin expression that returns the secret at runtime.
	Call   string
	Native merge.Outcome
	Bridge merge.Outcome
}

// Report summarizes one run.
type Report struct {
	RunID        string
	Variant      string
	BuildTypeKey string
	Mapped       bool
	Package      string
	NativePath   string
	BridgePath   string
	// Staged lists target files copied from the templates during the run.
	Staged   []string
	Secrets  []SecretResult
	Duration time.Duration
}

// Changed reports whether the run modified any target file.
func (r *Report) Changed() bool {
	for _, s := range r.Secrets {
		if s.Native != merge.Duplicate || s.Bridge != merge.Duplicate {
			return true
		}
	}
	return len(r.Staged) > 0
}

// Injector runs injections against one project.
type Injector struct {
	cfg     *config.Config
	props   secretstore.Properties
	logger  observability.Logger
	auditor *observability.Auditor
	engine  *merge.Engine
	encoder obfuscate.Encoder
}

// Option configures an Injector.
type Option func(*Injector)

// WithLogger sets the logger.
func WithLogger(l observability.Logger) Option {
	return func(i *Injector) {
		i.logger = l
	}
}

// WithAuditor records every merge to an audit trail.
func WithAuditor(a *observability.Auditor) Option {
	return func(i *Injector) {
		i.auditor = a
	}
}

// WithEngine sets the merge engine.
func WithEngine(e *merge.Engine) Option {
	return func(i *Injector) {
		i.engine = e
	}
}

// WithEncoder overrides the configured encoder.
func WithEncoder(e obfuscate.Encoder) Option {
	return func(i *Injector) {
		i.encoder = e
	}
}

// New creates an injector reading secrets from props.
func New(cfg *config.Config, props secretstore.Properties, opts ...Option) (*Injector, error) {
	i := &Injector{cfg: cfg, props: props}
	for _, opt := range opts {
		opt(i)
	}

	if i.encoder == nil {
		enc, err := obfuscate.Lookup(cfg.Encoder)
		if err != nil {
			return nil, err
		}
		i.encoder = enc
	}
	if i.logger == nil {
		i.logger = observability.NopLogger()
	}
	if i.auditor == nil {
		i.auditor = observability.NewAuditor(nil)
	}
	if i.engine == nil {
		i.engine = merge.NewEngine(merge.WithLocker(merge.NewLocker(cfg.LockPath())))
	}
	return i, nil
}
