// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package secretstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magiconair/properties"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/secure-secrets/secure-secrets/pkg/errors"
)

// LoadFile reads a property file. The format follows the extension:
// .properties, .yaml/.yml, .toml or .json. Nested tables are flattened
// with "." separators.
func LoadFile(path string) (Properties, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".properties":
		return loadJavaProperties(path)
	case ".yaml", ".yml":
		return loadStructured(path, yaml.Unmarshal)
	case ".toml":
		return loadStructured(path, toml.Unmarshal)
	case ".json":
		return loadStructured(path, json.Unmarshal)
	default:
		return nil, errors.ConfigError(fmt.Sprintf("unsupported property file format: %s", path), nil)
	}
}

// LoadFiles loads every file in order, later files overriding earlier ones.
// Relative paths are resolved against root. Missing files are skipped.
func LoadFiles(root string, paths []string) (Properties, []string, error) {
	merged := Properties{}
	loaded := make([]string, 0, len(paths))

	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		props, err := LoadFile(p)
		if err != nil {
			return nil, nil, err
		}
		merged = Merge(merged, props)
		loaded = append(loaded, p)
	}
	return merged, loaded, nil
}

func loadJavaProperties(path string) (Properties, error) {
	loader := properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadFile(path)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to parse property file: %s", path), err)
	}
	return Properties(p.Map()), nil
}

func loadStructured(path string, unmarshal func([]byte, any) error) (Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to read property file: %s", path), err)
	}

	var raw map[string]any
	if err := unmarshal(data, &raw); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to parse property file: %s", path), err)
	}

	out := Properties{}
	flatten("", raw, out)
	return out, nil
}

func flatten(prefix string, raw map[string]any, out Properties) {
	for k, v := range raw {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// FromEnviron picks SECURE_KEY_ and SECURE_VALUE_ variables out of environ
// (os.Environ() format).
func FromEnviron(environ []string) Properties {
	out := Properties{}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if strings.HasPrefix(key, KeyMarker) || strings.HasPrefix(key, ValueMarker) {
			out[key] = value
		}
	}
	return out
}

// ParseAssignments parses gradle style -P key=value arguments.
// A bare key is set to the empty string.
func ParseAssignments(args []string) (Properties, error) {
	out := Properties{}
	for _, arg := range args {
		key, value, _ := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, errors.ConfigError(fmt.Sprintf("invalid property assignment %q", arg), nil)
		}
		out[key] = value
	}
	return out, nil
}

// Merge returns a new set where later layers override earlier ones.
func Merge(layers ...Properties) Properties {
	out := Properties{}
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

// Keys returns the property names in sorted order.
func (p Properties) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
