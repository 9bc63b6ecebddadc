// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package codegen renders the per-secret C++ JNI function and Kotlin
// external declaration. Everything here is pure.
package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf16"
)

// ClassName is the Kotlin class holding the external accessors.
const ClassName = "Secrets"

var nativeTemplate = template.Must(template.New("native").Parse(`
extern "C" JNIEXPORT jstring JNICALL
{{.Function}}(
        JNIEnv* env,
        jobject pThis) {
     std::string api_key = {{.Literal}};
     return env->NewStringUTF(api_key.c_str());
}
`))

// Fragment is the generated code for one secret.
type Fragment struct {
	Accessor      string
	NativeSnippet string
	BridgeSnippet string
}

// Generate renders both snippets for one secret.
func Generate(packageID, accessorName, literal string) Fragment {
	return Fragment{
		Accessor:      Getter(accessorName),
		NativeSnippet: Native(packageID, accessorName, literal),
		BridgeSnippet: Bridge(accessorName),
	}
}

// Native renders the exported JNI function returning literal.
func Native(packageID, accessorName, literal string) string {
	var buf bytes.Buffer
	// the template only fails on writer errors, which bytes.Buffer never returns
	_ = nativeTemplate.Execute(&buf, struct {
		Function string
		Literal  string
	}{
		Function: FunctionName(packageID, accessorName),
		Literal:  literal,
	})
	return buf.String()
}

// Bridge renders the Kotlin external declaration, indented for the class body.
func Bridge(accessorName string) string {
	return fmt.Sprintf("    external fun %s(): String", Getter(accessorName))
}

// Getter returns the Kotlin accessor name.
func Getter(accessorName string) string {
	return "get" + accessorName
}

// FunctionName returns the JNI symbol for Secrets.get<accessorName>.
func FunctionName(packageID, accessorName string) string {
	return "Java_" + MangleJNI(packageID) + "_" + ClassName + "_" + MangleJNI(Getter(accessorName))
}

// AccessorName appends a variant suffix to a declared name, dropping
// characters that cannot appear in an identifier.
func AccessorName(declaredName, suffix string) string {
	var b strings.Builder
	b.WriteString(declaredName)
	for _, r := range suffix {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MangleJNI escapes a package or method name per the JNI naming rules:
// '.' and '/' become '_', '_' becomes "_1", ';' "_2", '[' "_3" and
// non-ASCII characters "_0xxxx".
func MangleJNI(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '.' || r == '/':
			b.WriteByte('_')
		case r == '_':
			b.WriteString("_1")
		case r == ';':
			b.WriteString("_2")
		case r == '[':
			b.WriteString("_3")
		case r < 0x80:
			b.WriteRune(r)
		default:
			for _, u := range utf16.Encode([]rune{r}) {
				fmt.Fprintf(&b, "_0%04x", u)
			}
		}
	}
	return b.String()
}
