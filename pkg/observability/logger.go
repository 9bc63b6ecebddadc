// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package observability provides logging and the injection audit trail.
package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/phuslu/log"
)

// Logger is the structured logger interface.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field represents a log field.
type Field struct {
	Key   string
	Value any
}

// logger is the default implementation, backed by phuslu/log.
type logger struct {
	base   *log.Logger
	fields []Field
}

// NewLogger creates a logger writing to stderr.
// format is "console" or "json"; an empty format picks console when stderr is a terminal.
func NewLogger(level, format string) Logger {
	if format == "" {
		format = "json"
		if log.IsTerminal(os.Stderr.Fd()) {
			format = "console"
		}
	}
	return NewLoggerWithWriter(level, format, os.Stderr)
}

// NewLoggerWithWriter creates a logger writing to w.
func NewLoggerWithWriter(level, format string, w io.Writer) Logger {
	var writer log.Writer
	if strings.EqualFold(format, "console") {
		writer = &log.ConsoleWriter{
			Writer:         w,
			ColorOutput:    w == os.Stderr,
			EndWithMessage: true,
		}
	} else {
		writer = log.IOWriter{Writer: w}
	}

	return &logger{
		base: &log.Logger{
			Level:      log.ParseLevel(normalizeLevel(level)),
			TimeFormat: time.RFC3339,
			Writer:     writer,
		},
	}
}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger {
	return NewLoggerWithWriter("error", "json", io.Discard)
}

func normalizeLevel(level string) string {
	switch strings.ToLower(level) {
	case "debug", "info", "error":
		return strings.ToLower(level)
	case "warn", "warning":
		return "warn"
	default:
		return "info"
	}
}

func (l *logger) Debug(msg string, fields ...Field) {
	l.write(l.base.Debug(), msg, fields)
}

func (l *logger) Info(msg string, fields ...Field) {
	l.write(l.base.Info(), msg, fields)
}

func (l *logger) Warn(msg string, fields ...Field) {
	l.write(l.base.Warn(), msg, fields)
}

func (l *logger) Error(msg string, fields ...Field) {
	l.write(l.base.Error(), msg, fields)
}

func (l *logger) With(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &logger{base: l.base, fields: merged}
}

// write is a no-op when the level is disabled (phuslu returns a nil entry).
func (l *logger) write(e *log.Entry, msg string, fields []Field) {
	if e == nil {
		return
	}
	for _, f := range l.fields {
		e = appendField(e, f)
	}
	for _, f := range fields {
		e = appendField(e, f)
	}
	e.Msg(msg)
}

func appendField(e *log.Entry, f Field) *log.Entry {
	switch v := f.Value.(type) {
	case string:
		return e.Str(f.Key, v)
	case int:
		return e.Int(f.Key, v)
	case bool:
		return e.Bool(f.Key, v)
	case time.Duration:
		return e.Dur(f.Key, v)
	case error:
		return e.AnErr(f.Key, v)
	case []string:
		return e.Strs(f.Key, v)
	default:
		return e.Interface(f.Key, v)
	}
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a bool field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration creates a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Strings creates a string slice field.
func Strings(key string, value []string) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}
