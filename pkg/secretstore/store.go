// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package secretstore discovers declared secrets in build properties and
// resolves their per-build-type values.
//
// Naming convention:
//
//	SECURE_KEY_<alias>                     declares a secret
//	SECURE_VALUE_<buildTypeKey>_<alias>    holds its value for one build type
package secretstore

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/secure-secrets/secure-secrets/pkg/errors"
)

const (
	// KeyMarker marks a property declaring a secret.
	KeyMarker = "SECURE_KEY_"
	// ValueMarker prefixes a property holding a secret value.
	ValueMarker = "SECURE_VALUE_"
)

// Properties is a flat set of build properties.
type Properties map[string]string

// RawSecretEntry is a secret discovered from a SECURE_KEY_ property.
type RawSecretEntry struct {
	AliasID      string
	DeclaredName string
}

// ResolvedSecret is a secret with its plaintext for the active build type.
type ResolvedSecret struct {
	RawSecretEntry
	Plaintext string
}

// Scan returns every declared secret, sorted by alias.
func Scan(props Properties) ([]RawSecretEntry, error) {
	entries := make([]RawSecretEntry, 0)
	byName := make(map[string]string)

	for key := range props {
		idx := strings.Index(key, KeyMarker)
		if idx < 0 {
			continue
		}
		alias := key[idx+len(KeyMarker):]
		if alias == "" {
			return nil, errors.ConfigError(fmt.Sprintf("property %s declares a secret without an alias", key), nil)
		}

		name := DeclaredName(alias)
		if name == "" {
			return nil, errors.ConfigError(fmt.Sprintf("alias %q does not yield a usable accessor name", alias), nil)
		}
		if other, dup := byName[name]; dup && other != alias {
			return nil, errors.ConfigError(fmt.Sprintf("aliases %q and %q both map to accessor name %q", other, alias, name), nil)
		}
		if _, dup := byName[name]; dup {
			continue
		}
		byName[name] = alias
		entries = append(entries, RawSecretEntry{AliasID: alias, DeclaredName: name})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AliasID < entries[j].AliasID
	})
	return entries, nil
}

// DeclaredName derives the accessor name fragment from an alias:
// API_TOKEN becomes ApiToken. Only ASCII letters and digits survive.
func DeclaredName(alias string) string {
	spaced := strings.ReplaceAll(alias, "_", " ")
	titled := cases.Title(language.Und).String(spaced)

	var b strings.Builder
	for _, r := range titled {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValueProperty returns the property name holding alias's value for buildTypeKey.
func ValueProperty(buildTypeKey, alias string) string {
	return ValueMarker + buildTypeKey + "_" + alias
}

// ResolvePlaintext looks up the value of entry for buildTypeKey.
func ResolvePlaintext(entry RawSecretEntry, buildTypeKey string, props Properties) (string, error) {
	prop := ValueProperty(buildTypeKey, entry.AliasID)
	value, ok := props[prop]
	if !ok {
		return "", errors.MissingSecretValue(prop).WithContext("alias", entry.AliasID)
	}
	return value, nil
}

// ResolveAll resolves every entry, stopping at the first missing value.
func ResolveAll(entries []RawSecretEntry, buildTypeKey string, props Properties) ([]ResolvedSecret, error) {
	resolved := make([]ResolvedSecret, 0, len(entries))
	for _, e := range entries {
		v, err := ResolvePlaintext(e, buildTypeKey, props)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, ResolvedSecret{RawSecretEntry: e, Plaintext: v})
	}
	return resolved, nil
}
