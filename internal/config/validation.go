package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "a2t/internal/app/errors"
)

var languageCodePattern = regexp.MustCompile(`^[a-z]{2,3}(_[a-z]{2})?$`)

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	if timeout > 7*24*time.Hour {
		return fmt.Errorf("%s too large (max 7 days)", name)
	}
	return nil
}

// ValidateAPIKey validates API key format
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}
	if strings.ContainsAny(apiKey, " \t\r\n") {
		return fmt.Errorf("invalid %s API key format: contains whitespace", keyType)
	}

	switch keyType {
	case "AssemblyAI":
		if len(apiKey) < 20 {
			return fmt.Errorf("invalid AssemblyAI API key format: too short")
		}
	}

	return nil
}

// ValidateURL validates URL format
func ValidateURL(raw string, name string) error {
	if raw == "" {
		return fmt.Errorf("%s URL is required", name)
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return fmt.Errorf("%s URL must start with http:// or https://", name)
	}
	if u, err := url.Parse(raw); err != nil || u.Host == "" {
		return fmt.Errorf("%s URL has no host", name)
	}

	return nil
}

// ValidatePort validates port number
func ValidatePort(port string, name string) error {
	if port == "" {
		return fmt.Errorf("%s port is required", name)
	}

	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s port invalid", name)
	}

	return nil
}

// ValidateEnv accepts development and production.
func ValidateEnv(env string) error {
	switch env {
	case "development", "production":
		return nil
	}
	return fmt.Errorf("A2T_ENV must be development or production, got %q", env)
}

// ValidateUploadLimit bounds the upload size in megabytes.
func ValidateUploadLimit(mb int) error {
	if mb <= 0 || mb > 2048 {
		return apperrors.OutOfRange("upload limit (MB)", 1, 2048)
	}
	return nil
}

// ValidateLanguageCode checks the shape of a transcription language code such as "es" or "en_us".
func ValidateLanguageCode(code string) error {
	if !languageCodePattern.MatchString(code) {
		return fmt.Errorf("language code %q invalid", code)
	}
	return nil
}
