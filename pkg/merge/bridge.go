// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package merge

import (
	"regexp"
	"strings"

	"github.com/secure-secrets/secure-secrets/pkg/codegen"
	"github.com/secure-secrets/secure-secrets/pkg/errors"
)

var (
	packageLine     = regexp.MustCompile(`(?m)^\s*package\s+([A-Za-z_][A-Za-z0-9_.]*)`)
	externalGetters = regexp.MustCompile(`\bexternal\s+fun\s+(get[A-Za-z0-9_]+)\s*\(`)
)

// MergeBridgeContent appends the accessor declaration for accessorName to
// the Kotlin class in content. The package placeholder is replaced first.
// An accessor that is already declared is reported as Duplicate and not
// appended again.
func MergeBridgeContent(path, content, packageID, accessorName string) (string, Outcome, error) {
	content = strings.ReplaceAll(content, PackagePlaceholder, packageID)

	getter := codegen.Getter(accessorName)
	for _, existing := range BridgeAccessors(content) {
		if existing == getter {
			return content, Duplicate, nil
		}
	}

	trimmed := strings.TrimRight(content, " \t\r\n")
	if !strings.HasSuffix(trimmed, "}") {
		return "", Duplicate, errors.MalformedTarget(path, "no closing brace to append before")
	}
	body := strings.TrimRight(strings.TrimSuffix(trimmed, "}"), " \t\r\n")

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	if !lastLineIsDeclaration(body) {
		b.WriteString("\n")
	}
	b.WriteString(codegen.Bridge(accessorName))
	b.WriteString("\n}\n")
	return b.String(), Appended, nil
}

// BridgeAccessors lists the external getters declared in content, in order.
func BridgeAccessors(content string) []string {
	matches := externalGetters.FindAllStringSubmatch(content, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// BridgePackage returns the package declared in a Kotlin file, or "" when
// there is none or it is still the placeholder.
func BridgePackage(content string) string {
	m := packageLine.FindStringSubmatch(content)
	if m == nil || m[1] == PackagePlaceholder {
		return ""
	}
	return m[1]
}

func lastLineIsDeclaration(body string) bool {
	last := body
	if i := strings.LastIndexByte(body, '\n'); i >= 0 {
		last = body[i+1:]
	}
	return externalGetters.MatchString(last)
}
