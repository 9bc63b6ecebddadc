// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package variant maps build variants to build-type keys and accessor suffixes.
package variant

import (
	"fmt"

	"github.com/secure-secrets/secure-secrets/pkg/errors"
)

// Mapping holds the three index-aligned lists from the project configuration.
type Mapping struct {
	BuildTypesName   []string `yaml:"build_types_name"`
	BuildTypeKeys    []string `yaml:"build_type_keys"`
	BuildTypesSuffix []string `yaml:"build_types_suffix"`
}

// Resolution is the outcome of resolving one variant.
type Resolution struct {
	Variant      string
	BuildTypeKey string
	Suffix       string
	HasSuffix    bool
	// Mapped is false when the variant was not listed and defaults were used.
	Mapped bool
}

// Resolve maps variantName to its build-type key and optional suffix.
// It never fails: unmapped variants use their own name as the key and no suffix.
func Resolve(variantName string, m Mapping) Resolution {
	r := Resolution{Variant: variantName, BuildTypeKey: variantName}

	idx := indexOf(m.BuildTypesName, variantName)
	if idx < 0 {
		return r
	}
	r.Mapped = true

	if idx < len(m.BuildTypeKeys) && m.BuildTypeKeys[idx] != "" {
		r.BuildTypeKey = m.BuildTypeKeys[idx]
	}
	if len(m.BuildTypesSuffix) > 0 && idx < len(m.BuildTypesSuffix) {
		r.Suffix = m.BuildTypesSuffix[idx]
		r.HasSuffix = true
	}
	return r
}

// Validate reports lists that are not index-aligned.
// An empty suffix list is allowed and means "no suffixes".
func (m Mapping) Validate() error {
	if len(m.BuildTypeKeys) != len(m.BuildTypesName) {
		return errors.ConfigError(fmt.Sprintf(
			"build_type_keys has %d entries but build_types_name has %d",
			len(m.BuildTypeKeys), len(m.BuildTypesName)), nil)
	}
	if len(m.BuildTypesSuffix) > 0 && len(m.BuildTypesSuffix) != len(m.BuildTypesName) {
		return errors.ConfigError(fmt.Sprintf(
			"build_types_suffix has %d entries but build_types_name has %d",
			len(m.BuildTypesSuffix), len(m.BuildTypesName)), nil)
	}
	seen := make(map[string]struct{}, len(m.BuildTypesName))
	for _, name := range m.BuildTypesName {
		if _, dup := seen[name]; dup {
			return errors.ConfigError(fmt.Sprintf("variant %q listed twice in build_types_name", name), nil)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
