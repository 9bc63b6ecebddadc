package secretstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secure-secrets/secure-secrets/pkg/errors"
)

func TestDeclaredName(t *testing.T) {
	tests := []struct {
		alias string
		want  string
	}{
		{"API_KEY", "ApiKey"},
		{"API_TOKEN", "ApiToken"},
		{"maps_sdk_key", "MapsSdkKey"},
		{"OTHER_KEY", "OtherKey"},
		{"weird key_name", "WeirdKeyName"},
		{"___", ""},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			assert.Equal(t, tt.want, DeclaredName(tt.alias))
			// pure function of the alias
			assert.Equal(t, DeclaredName(tt.alias), DeclaredName(tt.alias))
		})
	}
}

func TestScan_SortedByAlias(t *testing.T) {
	props := Properties{
		"SECURE_KEY_ZETA":          "Zeta",
		"SECURE_KEY_API_TOKEN":     "ApiToken",
		"SECURE_VALUE_prod_ZETA":   "z",
		"android.useAndroidX":      "true",
		"org.gradle.SECURE_KEY_MAP": "Map",
	}

	entries, err := Scan(props)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, RawSecretEntry{AliasID: "API_TOKEN", DeclaredName: "ApiToken"}, entries[0])
	assert.Equal(t, "MAP", entries[1].AliasID)
	assert.Equal(t, "ZETA", entries[2].AliasID)
}

func TestScan_Errors(t *testing.T) {
	_, err := Scan(Properties{"SECURE_KEY_": "x"})
	assert.True(t, errors.IsType(err, errors.ErrConfig))

	_, err = Scan(Properties{"SECURE_KEY___": "x"})
	assert.True(t, errors.IsType(err, errors.ErrConfig))

	_, err = Scan(Properties{"SECURE_KEY_API_KEY": "", "SECURE_KEY_api_key": ""})
	assert.True(t, errors.IsType(err, errors.ErrConfig))
}

func TestResolvePlaintext(t *testing.T) {
	props := Properties{
		"SECURE_KEY_API_TOKEN":       "",
		"SECURE_VALUE_dev_API_TOKEN": "dev-token",
	}
	entry := RawSecretEntry{AliasID: "API_TOKEN", DeclaredName: "ApiToken"}

	v, err := ResolvePlaintext(entry, "dev", props)
	require.NoError(t, err)
	assert.Equal(t, "dev-token", v)

	_, err = ResolvePlaintext(entry, "prod", props)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrMissingSecretValue))
	assert.Contains(t, err.Error(), "SECURE_VALUE_prod_API_TOKEN")
}

func TestResolveAll_StopsAtFirstMissing(t *testing.T) {
	entries := []RawSecretEntry{
		{AliasID: "A", DeclaredName: "A"},
		{AliasID: "B", DeclaredName: "B"},
	}
	props := Properties{"SECURE_VALUE_prod_A": "a"}

	_, err := ResolveAll(entries, "prod", props)
	assert.True(t, errors.IsType(err, errors.ErrMissingSecretValue))

	props["SECURE_VALUE_prod_B"] = "b"
	resolved, err := ResolveAll(entries, "prod", props)
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "b", resolved[1].Plaintext)
}
