// Copyright 2026 Secure Secrets Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package obfuscate

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/secure-secrets/secure-secrets/pkg/errors"
)

// fallbackSeed replaces a zero FNV hash, which would freeze xorshift at zero.
const fallbackSeed uint64 = 0x9e3779b97f4a7c15

const xorshiftCall = "secure_secrets::decode("

// XorShift XORs each plaintext byte with a keystream seeded by the package
// name and the accessor salt.
//
//	seed  = FNV-1a 64 of package, then 0x00 and salt if salt is set
//	        (0x9e3779b97f4a7c15 if zero)
//	s    ^= s << 13; s ^= s >> 7; s ^= s << 17   (once per byte)
//	out_i = in_i ^ byte(s >> 24)
//
// The literal is secure_secrets::decode({ 0x.., ... }, "<package>", "<salt>"),
// with the salt argument omitted when empty.
type XorShift struct{}

// Name implements Encoder.
func (XorShift) Name() string { return DefaultEncoder }

// Encode implements Encoder.
func (XorShift) Encode(plaintext, packageID, salt string) (string, error) {
	if err := ValidatePackage(packageID); err != nil {
		return "", err
	}
	if err := ValidateSalt(salt); err != nil {
		return "", err
	}

	data := []byte(plaintext)
	applyKeystream(data, packageID, salt)

	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("0x%02x", b)
	}

	var bytesExpr string
	if len(parts) == 0 {
		bytesExpr = "{ }"
	} else {
		bytesExpr = "{ " + strings.Join(parts, ", ") + " }"
	}
	return xorshiftCall + bytesExpr + seedArgs(packageID, salt), nil
}

// Decode implements Encoder.
func (XorShift) Decode(literal, packageID, salt string) (string, error) {
	rest, ok := strings.CutPrefix(literal, xorshiftCall+"{")
	if !ok {
		return "", errors.EncodingError("not a xorshift literal", nil)
	}
	body, tail, ok := strings.Cut(rest, "}")
	if !ok {
		return "", errors.EncodingError("unterminated byte list", nil)
	}
	if want := seedArgs(packageID, salt); tail != want {
		return "", errors.EncodingError(fmt.Sprintf("literal was encoded for another package or accessor (suffix %q)", tail), nil)
	}

	var data []byte
	for _, tok := range strings.Split(body, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseUint(strings.TrimPrefix(tok, "0x"), 16, 8)
		if err != nil {
			return "", errors.EncodingError(fmt.Sprintf("bad byte %q", tok), err)
		}
		data = append(data, byte(v))
	}

	applyKeystream(data, packageID, salt)
	return string(data), nil
}

// NativeDecoder implements Encoder.
func (XorShift) NativeDecoder() string {
	return `namespace secure_secrets {

std::string decode(std::initializer_list<unsigned char> data, const char *seed, const char *salt = "") {
    uint64_t state = 0xcbf29ce484222325ULL;
    for (const char *p = seed; *p != '\0'; ++p) {
        state ^= static_cast<unsigned char>(*p);
        state *= 0x100000001b3ULL;
    }
    if (*salt != '\0') {
        state *= 0x100000001b3ULL;
        for (const char *p = salt; *p != '\0'; ++p) {
            state ^= static_cast<unsigned char>(*p);
            state *= 0x100000001b3ULL;
        }
    }
    if (state == 0) {
        state = 0x9e3779b97f4a7c15ULL;
    }
    std::string out;
    out.reserve(data.size());
    for (unsigned char b : data) {
        state ^= state << 13;
        state ^= state >> 7;
        state ^= state << 17;
        out.push_back(static_cast<char>(b ^ static_cast<unsigned char>(state >> 24)));
    }
    return out;
}

} // namespace secure_secrets
`
}

func seedArgs(packageID, salt string) string {
	if salt == "" {
		return fmt.Sprintf(", %q)", packageID)
	}
	return fmt.Sprintf(", %q, %q)", packageID, salt)
}

func applyKeystream(data []byte, packageID, salt string) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(packageID))
	if salt != "" {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(salt))
	}
	s := h.Sum64()
	if s == 0 {
		s = fallbackSeed
	}
	for i := range data {
		s ^= s << 13
		s ^= s >> 7
		s ^= s << 17
		data[i] ^= byte(s >> 24)
	}
}
