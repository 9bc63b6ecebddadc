// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package merge folds generated accessors into the native and bridge files
// without duplicating what a previous run already wrote.
package merge

import (
	"strings"

	"github.com/secure-secrets/secure-secrets/pkg/codegen"
)

// Placeholders present in freshly staged templates.
const (
	PackagePlaceholder = "YOUR_PACKAGE_GOES_HERE"
	KeyNamePlaceholder = "YOUR_KEY_NAME_GOES_HERE"
	KeyPlaceholder     = "YOUR_KEY_GOES_HERE"
)

// Outcome is what a merge did to a file.
type Outcome int

const (
	// Duplicate means the accessor was already present; nothing was added.
	Duplicate Outcome = iota
	// Bootstrapped means the template placeholders were replaced.
	Bootstrapped
	// Appended means a new accessor was added at the end.
	Appended
	// Updated means an existing native accessor got a new literal.
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Duplicate:
		return "duplicate"
	case Bootstrapped:
		return "bootstrapped"
	case Appended:
		return "appended"
	case Updated:
		return "updated"
	default:
		return "unknown"
	}
}

const assignPrefix = "std::string api_key = "

// MergeNativeContent applies one secret to the contents of the native file.
//
// Order of checks: an existing function for the accessor (duplicate when its
// literal matches, updated otherwise), then the template placeholder, then
// append.
func MergeNativeContent(content, packageID, accessorName, literal string) (string, Outcome) {
	fn := codegen.FunctionName(packageID, accessorName)

	if start, end, ok := findAssignedLiteral(content, fn); ok {
		if content[start:end] == literal {
			return content, Duplicate
		}
		return content[:start] + literal + content[end:], Updated
	}

	if strings.Contains(content, KeyPlaceholder) {
		out := strings.ReplaceAll(content, PackagePlaceholder, codegen.MangleJNI(packageID))
		out = strings.ReplaceAll(out, KeyNamePlaceholder, codegen.MangleJNI(accessorName))
		out = strings.ReplaceAll(out, KeyPlaceholder, literal)
		return out, Bootstrapped
	}

	return content + codegen.Native(packageID, accessorName, literal), Appended
}

// NativeAccessors lists the JNI function names defined in content, in order.
func NativeAccessors(content string) []string {
	var names []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Java_") && strings.HasSuffix(line, "(") {
			names = append(names, strings.TrimSuffix(line, "("))
		}
	}
	return names
}

// findAssignedLiteral locates the literal assigned inside function fn.
// Literals never contain newlines, so the assignment runs to end of line.
func findAssignedLiteral(content, fn string) (int, int, bool) {
	idx := strings.Index(content, fn+"(")
	if idx < 0 {
		return 0, 0, false
	}
	body := content[idx:]
	if stop := strings.Index(body, "\n}"); stop >= 0 {
		body = body[:stop]
	}
	a := strings.Index(body, assignPrefix)
	if a < 0 {
		return 0, 0, false
	}
	start := idx + a + len(assignPrefix)
	end := strings.IndexByte(content[start:], '\n')
	if end < 0 {
		end = len(content) - start
	}
	end = start + end
	line := strings.TrimRight(content[start:end], " \t\r")
	if !strings.HasSuffix(line, ";") {
		return 0, 0, false
	}
	return start, start + len(line) - 1, true
}
