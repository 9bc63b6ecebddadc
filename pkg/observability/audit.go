// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package observability

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Auditor appends one JSON line per injection event.
// Events never carry plaintext values.
type Auditor struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
}

// NewAuditor creates an auditor writing to w. A nil w discards events.
func NewAuditor(w io.Writer) *Auditor {
	if w == nil {
		w = io.Discard
	}
	return &Auditor{w: w}
}

// OpenAuditFile opens (or creates) an append-only audit file.
func OpenAuditFile(path string) (*Auditor, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &Auditor{w: f, c: f}, nil
}

// LogInjection records an injection event.
func (a *Auditor) LogInjection(ctx context.Context, event *AuditEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()
	_, err = a.w.Write(data)
	return err
}

// Close closes the underlying file, if any.
func (a *Auditor) Close() error {
	if a.c == nil {
		return nil
	}
	return a.c.Close()
}

// AuditEvent represents an audit event.
type AuditEvent struct {
	Timestamp string            `json:"timestamp"`
	RunID     string            `json:"run_id"`
	Variant   string            `json:"variant"`
	Action    string            `json:"action"`
	Accessor  string            `json:"accessor,omitempty"`
	Success   bool              `json:"success"`
	Details   map[string]string `json:"details,omitempty"`
}
