// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package merge

import (
	"os"
	"path/filepath"

	"github.com/secure-secrets/secure-secrets/pkg/errors"
)

// writeFilesAtomic replaces each path via a temp file in the same directory
// and a rename, keeping the original file mode. Every temp file is written
// and synced before the first rename, so a failure to write one leaves all
// targets untouched.
func writeFilesAtomic(changes []Change) error {
	temps := make([]string, 0, len(changes))
	cleanup := func(from int) {
		for _, t := range temps[from:] {
			_ = os.Remove(t)
		}
	}

	for _, c := range changes {
		tmpName, err := stageTemp(c.Path, []byte(c.Content))
		if err != nil {
			cleanup(0)
			return err
		}
		temps = append(temps, tmpName)
	}

	for idx, c := range changes {
		if err := os.Rename(temps[idx], c.Path); err != nil {
			cleanup(idx)
			return errors.IOError("failed to replace "+c.Path, err)
		}
	}
	return nil
}

// stageTemp writes data next to path and returns the synced temp file name.
func stageTemp(path string, data []byte) (string, error) {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", errors.IOError("failed to create temp file for "+path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", errors.IOError("failed to write "+path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", errors.IOError("failed to sync "+path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", errors.IOError("failed to close "+path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return "", errors.IOError("failed to chmod "+path, err)
	}
	return tmpName, nil
}
