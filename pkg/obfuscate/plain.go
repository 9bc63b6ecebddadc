// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package obfuscate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/secure-secrets/secure-secrets/pkg/errors"
)

// Plain emits the secret as an escaped C++ string literal. It hides nothing
// and exists for debugging generated code.
type Plain struct{}

// Name implements Encoder.
func (Plain) Name() string { return "plain" }

// Encode implements Encoder. Non-printable bytes use 3-digit octal escapes,
// which unlike \x escapes cannot swallow a following character.
func (Plain) Encode(plaintext, _, _ string) (string, error) {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(plaintext); i++ {
		c := plaintext[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '?':
			// avoid trigraphs
			b.WriteString(`\?`)
		case c >= 0x20 && c < 0x7f:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "\\%03o", c)
		}
	}
	b.WriteByte('"')
	return b.String(), nil
}

// Decode implements Encoder.
func (Plain) Decode(literal, _, _ string) (string, error) {
	if len(literal) < 2 || literal[0] != '"' || literal[len(literal)-1] != '"' {
		return "", errors.EncodingError("not a string literal", nil)
	}
	body := literal[1 : len(literal)-1]

	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		if i+1 >= len(body) {
			return "", errors.EncodingError("dangling escape", nil)
		}
		next := body[i+1]
		if next >= '0' && next <= '7' {
			if i+4 > len(body) {
				return "", errors.EncodingError("short octal escape", nil)
			}
			v, err := strconv.ParseUint(body[i+1:i+4], 8, 8)
			if err != nil {
				return "", errors.EncodingError("bad octal escape", err)
			}
			out = append(out, byte(v))
			i += 3
			continue
		}
		out = append(out, next)
		i++
	}
	return string(out), nil
}

// NativeDecoder implements Encoder.
func (Plain) NativeDecoder() string {
	return ""
}
