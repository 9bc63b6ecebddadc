package obfuscate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secure-secrets/secure-secrets/pkg/errors"
)

const examplePackage = "com.example.app"

func TestXorShift_FrozenVector(t *testing.T) {
	got, err := XorShift{}.Encode("my-secret-123", examplePackage, "")
	require.NoError(t, err)
	assert.Equal(t,
		`secure_secrets::decode({ 0x20, 0xfd, 0xd2, 0x30, 0xdb, 0x5b, 0xad, 0xf7, 0xec, 0x2e, 0x20, 0x27, 0xeb }, "com.example.app")`,
		got)
}

func TestXorShift_SaltedFrozenVector(t *testing.T) {
	got, err := XorShift{}.Encode("my-secret-123", examplePackage, "getApiToken")
	require.NoError(t, err)
	assert.Equal(t,
		`secure_secrets::decode({ 0x46, 0xfe, 0xab, 0xd6, 0x9a, 0x2d, 0xba, 0xaa, 0xe5, 0x34, 0x03, 0x9c, 0xa2 }, "com.example.app", "getApiToken")`,
		got)
}

func TestXorShift_SaltSeparatesAccessors(t *testing.T) {
	enc := XorShift{}
	a, err := enc.Encode("shared-value", examplePackage, "getApiTokenDev")
	require.NoError(t, err)
	b, err := enc.Encode("shared-value", examplePackage, "getApiTokenProd")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	out, err := enc.Decode(a, examplePackage, "getApiTokenDev")
	require.NoError(t, err)
	assert.Equal(t, "shared-value", out)

	_, err = enc.Decode(a, examplePackage, "getApiTokenProd")
	assert.True(t, errors.IsType(err, errors.ErrEncoding))
	_, err = enc.Decode(a, examplePackage, "")
	assert.True(t, errors.IsType(err, errors.ErrEncoding))
}

func TestXorShift_InvalidSalt(t *testing.T) {
	_, err := XorShift{}.Encode("x", examplePackage, `get"); evil`)
	assert.True(t, errors.IsType(err, errors.ErrConfig))
}

func TestXorShift_RoundTrip(t *testing.T) {
	enc := XorShift{}
	inputs := []string{
		"my-secret-123",
		"",
		"a",
		"with \"quotes\" and \\ backslashes }{",
		"ünïcødé ✓",
		strings.Repeat("long-secret-", 50),
		"\x00\x01\xff",
	}

	for _, in := range inputs {
		literal, err := enc.Encode(in, examplePackage, "")
		require.NoError(t, err)

		out, err := enc.Decode(literal, examplePackage, "")
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestXorShift_Deterministic(t *testing.T) {
	enc := XorShift{}
	a, err := enc.Encode("secret", examplePackage, "")
	require.NoError(t, err)
	b, err := enc.Encode("secret", examplePackage, "")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := enc.Encode("secret", "com.example.other", "")
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}

func TestXorShift_HidesPlaintext(t *testing.T) {
	literal, err := XorShift{}.Encode("hunter2", examplePackage, "")
	require.NoError(t, err)
	assert.NotContains(t, literal, "hunter2")
}

func TestXorShift_EmptyPlaintext(t *testing.T) {
	literal, err := XorShift{}.Encode("", examplePackage, "")
	require.NoError(t, err)
	assert.Equal(t, `secure_secrets::decode({ }, "com.example.app")`, literal)
}

func TestXorShift_DecodeErrors(t *testing.T) {
	enc := XorShift{}
	literal, err := enc.Encode("x", examplePackage, "")
	require.NoError(t, err)

	_, err = enc.Decode(literal, "com.example.other", "")
	assert.True(t, errors.IsType(err, errors.ErrEncoding))

	_, err = enc.Decode(`"x"`, examplePackage, "")
	assert.Error(t, err)

	_, err = enc.Decode(`secure_secrets::decode({ 0xzz }, "com.example.app")`, examplePackage, "")
	assert.Error(t, err)
}

func TestXorShift_InvalidPackage(t *testing.T) {
	_, err := XorShift{}.Encode("x", `com.example"; evil`, "")
	assert.True(t, errors.IsType(err, errors.ErrConfig))
}

func TestPlain_RoundTrip(t *testing.T) {
	enc := Plain{}
	inputs := []string{"abc", "", `q"b\s`, "line\nbreak1", "\x001", "??=", "é"}

	for _, in := range inputs {
		literal, err := enc.Encode(in, examplePackage, "")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(literal, `"`))

		out, err := enc.Decode(literal, examplePackage, "")
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}

	literal, _ := enc.Encode("\n1", examplePackage, "")
	assert.Equal(t, `"\0121"`, literal)
}

func TestLookup(t *testing.T) {
	enc, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEncoder, enc.Name())
	assert.NotEmpty(t, enc.NativeDecoder())

	enc, err = Lookup("plain")
	require.NoError(t, err)
	assert.Empty(t, enc.NativeDecoder())

	_, err = Lookup("rot13")
	assert.True(t, errors.IsType(err, errors.ErrConfig))

	assert.Equal(t, []string{"plain", "xorshift"}, Names())
}

func TestValidatePackage(t *testing.T) {
	valid := []string{"com.example.app", "app", "com.my_company.app2", "_x._y"}
	invalid := []string{"", "com..app", "1com.app", "com.app.", "com-app", "com.app!"}

	for _, p := range valid {
		assert.NoError(t, ValidatePackage(p), p)
	}
	for _, p := range invalid {
		assert.Error(t, ValidatePackage(p), p)
	}
}
