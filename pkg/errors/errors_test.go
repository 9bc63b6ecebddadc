package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsType(t *testing.T) {
	err := MissingSecretValue("SECURE_VALUE_prod_API_TOKEN")
	wrapped := fmt.Errorf("inject release: %w", err)

	assert.True(t, IsType(err, ErrMissingSecretValue))
	assert.True(t, IsType(wrapped, ErrMissingSecretValue))
	assert.False(t, IsType(wrapped, ErrConfig))
	assert.False(t, IsType(nil, ErrConfig))
}

func TestSecretsError_Error(t *testing.T) {
	err := ConfigError("no key provided", nil)
	assert.Equal(t, "[CONFIG] no key provided", err.Error())

	err = IOError("write failed", fmt.Errorf("disk full"))
	assert.Equal(t, "[IO] write failed: disk full", err.Error())
}

func TestErrorTypeLabels(t *testing.T) {
	tests := []struct {
		err  *SecretsError
		want string
	}{
		{ConfigError("x", nil), "[CONFIG] x"},
		{MissingSecretValue("X"), "[MISSING_SECRET_VALUE] "},
		{MissingTargetFile("secrets.cpp", "copy-cpp"), "[MISSING_TARGET_FILE] "},
		{MalformedTarget("Secrets.kt", "x"), "[MALFORMED_TARGET] Secrets.kt: x"},
		{EncodingError("x", nil), "[ENCODING] x"},
		{IOError("x", nil), "[IO] x"},
	}

	for _, tt := range tests {
		assert.True(t, strings.HasPrefix(tt.err.Error(), tt.want), tt.err.Error())
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitConfig, ExitCode(ConfigError("bad", nil)))
	assert.Equal(t, ExitInjection, ExitCode(MissingTargetFile("Secrets.kt", "copy-kotlin")))
	assert.Equal(t, ExitInjection, ExitCode(MalformedTarget("Secrets.kt", "no closing brace")))
	assert.Equal(t, ExitConfig, ExitCode(fmt.Errorf("unknown flag")))
}

func TestMissingTargetFileHint(t *testing.T) {
	err := MissingTargetFile("src/main/cpp/secrets.cpp", "copy-cpp")
	assert.Contains(t, err.Error(), "secure-secrets copy-cpp")
	assert.Equal(t, "src/main/cpp/secrets.cpp", err.Context["path"])
}
