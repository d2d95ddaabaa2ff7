package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "a2t/internal/app/errors"
)

// APIKeyName is the secret holding the AssemblyAI credential, in both the
// secrets store and the environment.
const APIKeyName = "ASSEMBLYAI_API_KEY"

// SecretProvider is one source of secrets. Lookup returns ok=false when the
// source has no value for key.
type SecretProvider interface {
	Name() string
	Lookup(key string) (value string, ok bool)
}

// YAMLFileProvider serves secrets from a flat YAML mapping such as
//
//	ASSEMBLYAI_API_KEY: "..."
type YAMLFileProvider struct {
	path   string
	values map[string]string
}

// NewYAMLFileProvider reads path. A missing file yields an empty provider;
// a file that is present but malformed is an error.
func NewYAMLFileProvider(path string) (*YAMLFileProvider, error) {
	p := &YAMLFileProvider{path: path, values: map[string]string{}}
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read secrets file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p.values); err != nil {
		return nil, fmt.Errorf("parse secrets file %s: %w", path, err)
	}
	return p, nil
}

func (p *YAMLFileProvider) Name() string {
	return "secrets file " + p.path
}

func (p *YAMLFileProvider) Lookup(key string) (string, bool) {
	v := strings.TrimSpace(p.values[key])
	return v, v != ""
}

// EnvProvider serves secrets from the process environment.
type EnvProvider struct{}

func (EnvProvider) Name() string {
	return "environment"
}

func (EnvProvider) Lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

// Secret is a resolved secret and the provider it came from.
type Secret struct {
	Value  string
	Source string
}

// ResolveSecret asks each provider in order and returns the first value found.
func ResolveSecret(key string, providers ...SecretProvider) (Secret, bool) {
	for _, p := range providers {
		if p == nil {
			continue
		}
		if v, ok := p.Lookup(key); ok {
			return Secret{Value: v, Source: p.Name()}, true
		}
	}
	return Secret{}, false
}

// DefaultSecretProviders returns the secrets file followed by the environment.
func DefaultSecretProviders(secretsFile string) ([]SecretProvider, error) {
	file, err := NewYAMLFileProvider(secretsFile)
	if err != nil {
		return nil, err
	}
	return []SecretProvider{file, EnvProvider{}}, nil
}

// RequireAPIKey resolves the AssemblyAI key or returns ErrCredentialMissing.
func RequireAPIKey(providers ...SecretProvider) (Secret, error) {
	secret, ok := ResolveSecret(APIKeyName, providers...)
	if !ok {
		return Secret{}, apperrors.ErrCredentialMissing
	}
	if err := ValidateAPIKey(secret.Value, "AssemblyAI"); err != nil {
		return Secret{}, apperrors.Wrapf(err, "key from %s", secret.Source)
	}
	return secret, nil
}
