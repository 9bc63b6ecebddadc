// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package obfuscate turns plaintext secrets into native expressions that a
// paired decode routine reverses at runtime.
//
// This is a deterrent against string scanning of a compiled library, not
// encryption: everything needed to decode ships in the same binary.
package obfuscate

import (
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/secure-secrets/secure-secrets/pkg/errors"
)

// DefaultEncoder is the strategy used when none is configured.
const DefaultEncoder = "xorshift"

// Encoder is one obfuscation strategy. Encode must be deterministic so that
// re-running an injection finds the literal it wrote last time.
//
// salt names the accessor a literal belongs to. It is an identifier or empty,
// and keeps equal values under different accessors from sharing bytes.
type Encoder interface {
	// Name identifies the strategy in configuration.
	Name() string
	// Encode returns a C++ expression of type std::string.
	Encode(plaintext, packageID, salt string) (string, error)
	// Decode reverses Encode exactly as the native routine does.
	Decode(literal, packageID, salt string) (string, error)
	// NativeDecoder returns the C++ source the literals depend on.
	NativeDecoder() string
}

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Encoder{}
)

// Register makes a strategy available to Lookup.
func Register(name string, factory func() Encoder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Lookup returns the strategy registered under name.
func Lookup(name string) (Encoder, error) {
	if name == "" {
		name = DefaultEncoder
	}
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.ConfigError(fmt.Sprintf("unknown encoder %q (available: %v)", name, Names()), nil)
	}
	return factory(), nil
}

// Names lists registered strategies.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(DefaultEncoder, func() Encoder { return XorShift{} })
	Register("plain", func() Encoder { return Plain{} })
}

var packagePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

var saltPattern = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

// ValidateSalt checks that salt can be embedded in a C++ string literal as is.
func ValidateSalt(salt string) error {
	if !saltPattern.MatchString(salt) {
		return errors.ConfigError(fmt.Sprintf("invalid accessor salt %q", salt), nil)
	}
	return nil
}

// ValidatePackage checks that id is a dotted JVM package name.
func ValidatePackage(id string) error {
	if !packagePattern.MatchString(id) {
		return errors.ConfigError(fmt.Sprintf("invalid package name %q", id), nil)
	}
	return nil
}
