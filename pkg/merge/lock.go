// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package merge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/secure-secrets/secure-secrets/pkg/errors"
)

const lockRetryDelay = 50 * time.Millisecond

// Locker serializes read-modify-write cycles on target files, both between
// goroutines of this process and between processes (advisory file locks).
type Locker struct {
	dir string

	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewLocker creates a locker keeping its lock files in dir.
// An empty dir uses a directory under os.TempDir().
func NewLocker(dir string) *Locker {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "secure-secrets-locks")
	}
	return &Locker{dir: dir, slots: make(map[string]chan struct{})}
}

// Acquire locks every path, in sorted order so that concurrent callers
// asking for overlapping sets cannot deadlock. The returned func releases
// all of them.
func (l *Locker) Acquire(ctx context.Context, paths ...string) (func(), error) {
	keys := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.IOError("failed to resolve "+p, err)
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		keys = append(keys, abs)
	}
	sort.Strings(keys)

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return nil, errors.IOError("failed to create lock directory", err)
	}

	var releases []func()
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, key := range keys {
		release, err := l.acquireOne(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

func (l *Locker) acquireOne(ctx context.Context, key string) (func(), error) {
	slot := l.slot(key)
	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	fl := flock.New(filepath.Join(l.dir, lockName(key)))
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		<-slot
		if err == nil {
			err = fmt.Errorf("lock not acquired")
		}
		return nil, errors.IOError("failed to lock "+key, err)
	}

	return func() {
		_ = fl.Unlock()
		<-slot
	}, nil
}

func (l *Locker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[key] = s
	}
	return s
}

// lockName derives a stable lock file name from an absolute path.
func lockName(abs string) string {
	sum := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:8]) + ".lock"
}
