package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"a2t/internal/app/api/provider"
	apperrors "a2t/internal/app/errors"
)

// Defaults applied when the matching environment variable is unset.
const (
	DefaultHost          = "0.0.0.0"
	DefaultPort          = "8501"
	DefaultEnv           = "development"
	DefaultMaxUploadMB   = 200
	DefaultSecretsFile   = "secrets.yaml"
	DefaultSessionTTL    = 24 * time.Hour
	DefaultAssemblyAIURL = "https://api.assemblyai.com"
	DefaultPollInterval  = 3 * time.Second
	DefaultLanguageCode  = "es"
)

// Settings is the process configuration read from the environment.
type Settings struct {
	Host        string
	Port        string
	Env         string
	ScratchDir  string
	MaxUploadMB int
	FFmpegPath  string
	FFprobePath string
	SecretsFile string
	RedisURL    string
	SessionTTL  time.Duration
	AssemblyAI  AssemblyAISettings
}

// AssemblyAISettings configures the transcription client. The API key is
// resolved separately through the secret providers.
type AssemblyAISettings struct {
	BaseURL      string
	PollInterval time.Duration
	LanguageCode string
}

// LoadEnv loads environment variables from the first .env file found.
// It returns the path it loaded, or "" when none exists; the environment
// may already be populated.
func LoadEnv() (string, error) {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	if root, err := GetProjectRoot(); err == nil {
		envPaths = append(envPaths, filepath.Join(root, ".env"))
	}

	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}

	return "", nil
}

// LoadSettings reads and validates Settings from the environment.
func LoadSettings() (*Settings, error) {
	maxUpload, err := getEnvInt("A2T_MAX_UPLOAD_MB", DefaultMaxUploadMB)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := getEnvDuration("A2T_SESSION_TTL", DefaultSessionTTL)
	if err != nil {
		return nil, err
	}
	pollInterval, err := getEnvDuration("ASSEMBLYAI_POLL_INTERVAL", DefaultPollInterval)
	if err != nil {
		return nil, err
	}

	s := &Settings{
		Host:        getEnvOrDefault("A2T_HOST", DefaultHost),
		Port:        getEnvOrDefault("A2T_PORT", DefaultPort),
		Env:         strings.ToLower(getEnvOrDefault("A2T_ENV", DefaultEnv)),
		ScratchDir:  getEnvOrDefault("A2T_SCRATCH_DIR", filepath.Join(os.TempDir(), "a2t")),
		MaxUploadMB: maxUpload,
		FFmpegPath:  getEnvOrDefault("A2T_FFMPEG", "ffmpeg"),
		FFprobePath: getEnvOrDefault("A2T_FFPROBE", "ffprobe"),
		SecretsFile: getEnvOrDefault("A2T_SECRETS_FILE", DefaultSecretsFile),
		RedisURL:    strings.TrimSpace(os.Getenv("A2T_REDIS_URL")),
		SessionTTL:  sessionTTL,
		AssemblyAI: AssemblyAISettings{
			BaseURL:      getEnvOrDefault("ASSEMBLYAI_BASE_URL", DefaultAssemblyAIURL),
			PollInterval: pollInterval,
			LanguageCode: getEnvOrDefault("ASSEMBLYAI_LANGUAGE_CODE", DefaultLanguageCode),
		},
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks every field with the Validate* helpers.
func (s *Settings) Validate() error {
	checks := []error{
		ValidatePort(s.Port, "A2T_PORT"),
		ValidateEnv(s.Env),
		ValidateUploadLimit(s.MaxUploadMB),
		ValidateURL(s.AssemblyAI.BaseURL, "ASSEMBLYAI_BASE_URL"),
		ValidateTimeout(s.AssemblyAI.PollInterval, "ASSEMBLYAI_POLL_INTERVAL"),
		ValidateLanguageCode(s.AssemblyAI.LanguageCode),
		ValidateTimeout(s.SessionTTL, "A2T_SESSION_TTL"),
	}
	for _, err := range checks {
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrInvalidConfig.Error())
		}
	}
	return nil
}

// Development reports whether the process runs in development mode.
func (s *Settings) Development() bool {
	return s.Env == "development"
}

// Addr returns the HTTP listen address.
func (s *Settings) Addr() string {
	return s.Host + ":" + s.Port
}

// MaxUploadBytes converts MaxUploadMB to bytes.
func (s *Settings) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}

// TranscriptionConfig returns the fixed request configuration with the
// configured language.
func (s *Settings) TranscriptionConfig() provider.TranscriptionConfig {
	cfg := provider.DefaultTranscriptionConfig()
	cfg.LanguageCode = s.AssemblyAI.LanguageCode
	return cfg
}

// GetProjectRoot finds the project root directory by looking for go.mod
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find project root (go.mod not found)")
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidField(key, fmt.Sprintf("%q is not an integer", raw))
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, apperrors.InvalidField(key, fmt.Sprintf("%q is not a duration", raw))
	}
	return v, nil
}
