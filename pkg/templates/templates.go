// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package templates stages the bundled native and Kotlin templates and
// copies them into an Android project.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/secure-secrets/secure-secrets/pkg/errors"
)

//go:embed files
var bundled embed.FS

const (
	// NativeFileName is the native source file in the template set.
	NativeFileName = "secrets.cpp"
	// BridgeFileName is the Kotlin bridge file in the template set.
	BridgeFileName = "Secrets.kt"
	// AppMainFolder is the Android main source set.
	AppMainFolder = "src/main"

	nativeDir = "cpp"
	bridgeDir = "kotlin"
	tmplExt   = ".tmpl"
)

// Action describes what a copy did.
type Action string

const (
	Copied      Action = "copied"
	Skipped     Action = "skipped"
	Overwritten Action = "overwritten"
)

// CopyResult reports one copied file.
type CopyResult struct {
	Source string
	Dest   string
	Action Action
	// DirCreated is true when the destination directory did not exist.
	DirCreated bool
}

// Data fills the .tmpl files of the template set.
type Data struct {
	// Decoder is the active encoder's native routine.
	Decoder string
	// NativeFile is the native source name the CMake target builds.
	NativeFile string
}

// Unpack writes the bundled templates into stagingDir, rendering data into
// the .tmpl files. The staging directory is owned by this tool, so files are
// always rewritten.
func Unpack(stagingDir string, data Data) ([]string, error) {
	if data.NativeFile == "" {
		data.NativeFile = NativeFileName
	}
	var written []string

	err := fs.WalkDir(bundled, "files", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := bundled.ReadFile(p)
		if err != nil {
			return err
		}

		rel := strings.TrimPrefix(p, "files/")
		if strings.HasSuffix(rel, tmplExt) {
			rel = strings.TrimSuffix(rel, tmplExt)
			if content, err = render(p, content, data); err != nil {
				return err
			}
		}

		dest := filepath.Join(stagingDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dest, content, 0o644); err != nil {
			return err
		}
		written = append(written, dest)
		return nil
	})
	if err != nil {
		return nil, errors.IOError("failed to unpack templates into "+stagingDir, err)
	}
	return written, nil
}

func render(name string, content []byte, data Data) ([]byte, error) {
	t, err := template.New(path.Base(name)).Parse(string(content))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CopyNative copies every staged native file into cppDir, writing the native
// source as nativeFile. Existing files are kept unless force is set, since
// they may already hold injected secrets.
func CopyNative(stagingDir, cppDir, nativeFile string, force bool) ([]CopyResult, error) {
	if nativeFile == "" {
		nativeFile = NativeFileName
	}
	src := filepath.Join(stagingDir, nativeDir)
	entries, err := os.ReadDir(src)
	if os.IsNotExist(err) {
		return nil, errors.MissingTargetFile(src, "unpack")
	}
	if err != nil {
		return nil, errors.IOError("failed to list "+src, err)
	}

	results := make([]CopyResult, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == NativeFileName {
			name = nativeFile
		}
		res, err := copyFile(filepath.Join(src, entry.Name()), filepath.Join(cppDir, name), force)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// CopyBridge copies the staged Kotlin file to dest.
func CopyBridge(stagingDir, dest string, force bool) (CopyResult, error) {
	src := filepath.Join(stagingDir, bridgeDir, BridgeFileName)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return CopyResult{}, errors.MissingTargetFile(src, "unpack")
	}
	return copyFile(src, dest, force)
}

func copyFile(src, dest string, force bool) (CopyResult, error) {
	res := CopyResult{Source: src, Dest: dest, Action: Copied}

	if _, err := os.Stat(dest); err == nil {
		if !force {
			res.Action = Skipped
			return res, nil
		}
		res.Action = Overwritten
	}

	dir := filepath.Dir(dest)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		res.DirCreated = true
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, errors.IOError("failed to create "+dir, err)
		}
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return res, errors.IOError("failed to read "+src, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return res, errors.IOError("failed to write "+dest, err)
	}
	return res, nil
}

// BridgeDestination is where the Kotlin file lives for packageID:
// src/main/java/<package path>/Secrets.kt.
func BridgeDestination(projectDir, packageID string) string {
	parts := append([]string{projectDir, AppMainFolder, "java"}, strings.Split(packageID, ".")...)
	return filepath.Join(append(parts, BridgeFileName)...)
}

// NativeDestination is the native source file inside the project.
func NativeDestination(projectDir, cppDir, fileName string) string {
	if fileName == "" {
		fileName = NativeFileName
	}
	if !filepath.IsAbs(cppDir) {
		cppDir = filepath.Join(projectDir, cppDir)
	}
	return filepath.Join(cppDir, fileName)
}

// FindBridgeFile searches the main source set for Secrets.kt and returns
// its path, or "" when there is none. More than one match is an error.
func FindBridgeFile(projectDir string) (string, error) {
	root := filepath.Join(projectDir, AppMainFolder)
	var found []string

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == root {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() && (d.Name() == "build" || strings.HasPrefix(d.Name(), ".")) && p != root {
			return fs.SkipDir
		}
		if !d.IsDir() && d.Name() == BridgeFileName {
			found = append(found, p)
		}
		return nil
	})
	if err != nil {
		return "", errors.IOError("failed to search "+root, err)
	}

	switch len(found) {
	case 0:
		return "", nil
	case 1:
		return found[0], nil
	default:
		return "", errors.ConfigError(fmt.Sprintf("found %d %s files, set bridge_file in the config: %v",
			len(found), BridgeFileName, found), nil)
	}
}
