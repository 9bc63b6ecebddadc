// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package merge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/secure-secrets/secure-secrets/pkg/errors"
)

// Commands that stage each target file, used in remediation hints.
const (
	NativeStageCommand = "copy-cpp"
	BridgeStageCommand = "copy-kotlin"
)

// Engine serializes merges into target files on disk. Callers read whole
// files in a Batch, merge in memory and Commit the results under the lock.
type Engine struct {
	locker *Locker
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocker sets the locker shared by all merges.
func WithLocker(l *Locker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// NewEngine creates a merge engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.locker == nil {
		e.locker = NewLocker("")
	}
	return e
}

// Tx performs merges on files locked by Engine.Batch.
type Tx struct {
	locked map[string]struct{}
}

// Batch holds the locks for paths while fn runs, so a sequence of merges
// across several files is never interleaved with another writer.
func (e *Engine) Batch(ctx context.Context, paths []string, fn func(tx *Tx) error) error {
	release, err := e.locker.Acquire(ctx, paths...)
	if err != nil {
		return err
	}
	defer release()

	tx := &Tx{locked: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		tx.locked[absPath(p)] = struct{}{}
	}
	return fn(tx)
}

// MergeNative merges one secret into the native file at path.
func (e *Engine) MergeNative(ctx context.Context, path, packageID, accessorName, literal string) (Outcome, error) {
	var out Outcome
	err := e.Batch(ctx, []string{path}, func(tx *Tx) error {
		content, err := tx.Read(path, NativeStageCommand)
		if err != nil {
			return err
		}
		var updated string
		updated, out = MergeNativeContent(content, packageID, accessorName, literal)
		return tx.commitIfChanged(path, content, updated)
	})
	return out, err
}

// MergeBridge merges one accessor declaration into the bridge file at path.
func (e *Engine) MergeBridge(ctx context.Context, path, packageID, accessorName string) (Outcome, error) {
	var out Outcome
	err := e.Batch(ctx, []string{path}, func(tx *Tx) error {
		content, err := tx.Read(path, BridgeStageCommand)
		if err != nil {
			return err
		}
		var updated string
		updated, out, err = MergeBridgeContent(path, content, packageID, accessorName)
		if err != nil {
			return err
		}
		return tx.commitIfChanged(path, content, updated)
	})
	return out, err
}

// Change is the new contents of one locked target file.
type Change struct {
	Path    string
	Content string
}

// Commit writes a set of changes computed from Read. Temp files for all of
// them are written and synced before the first rename.
func (tx *Tx) Commit(changes ...Change) error {
	for _, c := range changes {
		if _, ok := tx.locked[absPath(c.Path)]; !ok {
			return errors.IOError(fmt.Sprintf("%s is not locked by this batch", c.Path), nil)
		}
	}
	if len(changes) == 0 {
		return nil
	}
	return writeFilesAtomic(changes)
}

func (tx *Tx) commitIfChanged(path, before, after string) error {
	if after == before {
		return nil
	}
	return tx.Commit(Change{Path: path, Content: after})
}

// Read returns the current contents of a locked target file.
func (tx *Tx) Read(path, stageCommand string) (string, error) {
	return tx.read(path, stageCommand)
}

func (tx *Tx) read(path, stageCommand string) (string, error) {
	if _, ok := tx.locked[absPath(path)]; !ok {
		return "", errors.IOError(fmt.Sprintf("%s is not locked by this batch", path), nil)
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", errors.MissingTargetFile(path, stageCommand)
	}
	if err != nil {
		return "", errors.IOError("failed to read "+path, err)
	}
	return string(data), nil
}

// CheckTargets verifies that every target exists before anything is written.
func CheckTargets(native, bridge string) error {
	if _, err := os.Stat(native); os.IsNotExist(err) {
		return errors.MissingTargetFile(native, NativeStageCommand)
	}
	if _, err := os.Stat(bridge); os.IsNotExist(err) {
		return errors.MissingTargetFile(bridge, BridgeStageCommand)
	}
	return nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
