package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "a2t/internal/app/errors"
)

const validKey = "0123456789abcdef0123456789abcdef"

type staticProvider map[string]string

func (s staticProvider) Name() string { return "static" }

func (s staticProvider) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok && v != ""
}

func writeSecrets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResolveSecretOrder(t *testing.T) {
	first := staticProvider{"K": "from-first"}
	second := staticProvider{"K": "from-second", "ONLY2": "two"}

	s, ok := ResolveSecret("K", first, second)
	require.True(t, ok)
	assert.Equal(t, "from-first", s.Value)

	s, ok = ResolveSecret("ONLY2", first, nil, second)
	require.True(t, ok)
	assert.Equal(t, "two", s.Value)

	_, ok = ResolveSecret("MISSING", first, second)
	assert.False(t, ok)
}

func TestYAMLFileProvider(t *testing.T) {
	p, err := NewYAMLFileProvider(writeSecrets(t, "ASSEMBLYAI_API_KEY: \" "+validKey+" \"\nOTHER: x\n"))
	require.NoError(t, err)

	v, ok := p.Lookup(APIKeyName)
	assert.True(t, ok)
	assert.Equal(t, validKey, v)

	_, ok = p.Lookup("NOPE")
	assert.False(t, ok)
}

func TestYAMLFileProviderMissingFileIsEmpty(t *testing.T) {
	p, err := NewYAMLFileProvider(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	_, ok := p.Lookup(APIKeyName)
	assert.False(t, ok)
}

func TestYAMLFileProviderMalformed(t *testing.T) {
	_, err := NewYAMLFileProvider(writeSecrets(t, "ASSEMBLYAI_API_KEY: [unterminated\n"))
	assert.Error(t, err)
}

func TestRequireAPIKeyPrefersSecretsFile(t *testing.T) {
	t.Setenv(APIKeyName, "env0123456789abcdef0123456789ab")
	providers, err := DefaultSecretProviders(writeSecrets(t, "ASSEMBLYAI_API_KEY: "+validKey+"\n"))
	require.NoError(t, err)

	secret, err := RequireAPIKey(providers...)
	require.NoError(t, err)
	assert.Equal(t, validKey, secret.Value)
	assert.Contains(t, secret.Source, "secrets file")
}

func TestRequireAPIKeyFallsBackToEnv(t *testing.T) {
	t.Setenv(APIKeyName, validKey)
	providers, err := DefaultSecretProviders(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	secret, err := RequireAPIKey(providers...)
	require.NoError(t, err)
	assert.Equal(t, validKey, secret.Value)
	assert.Equal(t, "environment", secret.Source)
}

func TestRequireAPIKeyMissingEverywhere(t *testing.T) {
	t.Setenv(APIKeyName, "")
	providers, err := DefaultSecretProviders(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	_, err = RequireAPIKey(providers...)
	assert.ErrorIs(t, err, apperrors.ErrCredentialMissing)
}

func TestRequireAPIKeyRejectsMalformedKey(t *testing.T) {
	_, err := RequireAPIKey(staticProvider{APIKeyName: "short"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrCredentialMissing)
	assert.Contains(t, err.Error(), "too short")
}
