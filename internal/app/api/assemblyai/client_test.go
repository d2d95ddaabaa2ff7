package assemblyai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"a2t/internal/app/api/provider"
	apperrors "a2t/internal/app/errors"
	"a2t/internal/app/model"
)

const testKey = "test-assemblyai-key"

// mockAssemblyAI emulates the upload, submit and poll endpoints.
type mockAssemblyAI struct {
	t *testing.T

	mu           sync.Mutex
	uploaded     []byte
	submitted    map[string]interface{}
	polls        int
	pendingPolls int
	final        map[string]interface{}
	uploadStatus int
}

func (m *mockAssemblyAI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()

		if r.Header.Get("Authorization") != testKey {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Authentication error, API token missing/invalid"})
			return
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v2/upload":
			if m.uploadStatus != 0 {
				w.WriteHeader(m.uploadStatus)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "upload rejected"})
				return
			}
			m.uploaded, _ = io.ReadAll(r.Body)
			_ = json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.assemblyai.test/upload/abc"})

		case r.Method == http.MethodPost && r.URL.Path == "/v2/transcript":
			require.NoError(m.t, json.NewDecoder(r.Body).Decode(&m.submitted))
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "tr_123", "status": "queued"})

		case r.Method == http.MethodGet && r.URL.Path == "/v2/transcript/tr_123":
			m.polls++
			if m.polls <= m.pendingPolls {
				_ = json.NewEncoder(w).Encode(map[string]string{"id": "tr_123", "status": "processing"})
				return
			}
			_ = json.NewEncoder(w).Encode(m.final)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

type recordingMetrics struct {
	successes []string
	failures  []string
}

func (r *recordingMetrics) RecordSuccess(p string, _ int64, _ float64) {
	r.successes = append(r.successes, p)
}

func (r *recordingMetrics) RecordFailure(p string, errorType string) {
	r.failures = append(r.failures, p+":"+errorType)
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "canonical.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVEfmt "), 0o644))
	return path
}

func newTestClient(serverURL, key string, metrics provider.ProviderMetrics) *Client {
	return NewClient(Config{
		APIKey:        key,
		BaseURL:       serverURL + "/",
		PollInterval:  time.Millisecond,
		Transcription: provider.DefaultTranscriptionConfig(),
	}, nil, metrics, nil)
}

func TestTranscribeCompleted(t *testing.T) {
	mock := &mockAssemblyAI{
		t:            t,
		pendingPolls: 2,
		final: map[string]interface{}{
			"id":             "tr_123",
			"status":         "completed",
			"language_code":  "es",
			"audio_duration": 42.5,
			"utterances": []map[string]interface{}{
				{"speaker": "A", "text": "Hola, ¿qué tal?", "start": 0, "end": 1200},
				{"speaker": "B", "text": "Muy bien.", "start": 1300, "end": 2000},
				{"speaker": "A", "text": "Me alegro.", "start": 2100, "end": 2600},
			},
		},
	}
	server := httptest.NewServer(mock.handler())
	defer server.Close()

	metrics := &recordingMetrics{}
	client := newTestClient(server.URL, testKey, metrics)
	audioPath := writeAudio(t)

	result, err := client.Transcribe(context.Background(), audioPath)
	require.NoError(t, err)

	assert.Equal(t, model.StatusCompleted, result.Status)
	assert.Equal(t, "tr_123", result.ID)
	assert.Equal(t, 42500*time.Millisecond, result.AudioDuration)
	assert.Equal(t, []model.Utterance{
		{Speaker: "A", Text: "Hola, ¿qué tal?"},
		{Speaker: "B", Text: "Muy bien."},
		{Speaker: "A", Text: "Me alegro."},
	}, result.Utterances)

	assert.Equal(t, []byte("RIFF....WAVEfmt "), mock.uploaded)
	assert.Equal(t, 3, mock.polls)
	assert.Equal(t, "https://cdn.assemblyai.test/upload/abc", mock.submitted["audio_url"])
	assert.Equal(t, true, mock.submitted["speaker_labels"])
	assert.Equal(t, "es", mock.submitted["language_code"])
	assert.Equal(t, true, mock.submitted["punctuate"])
	assert.Equal(t, true, mock.submitted["format_text"])

	assert.Equal(t, []string{ProviderName}, metrics.successes)
	assert.Empty(t, metrics.failures)
}

func TestTranscribeServiceErrorStatus(t *testing.T) {
	mock := &mockAssemblyAI{
		t:     t,
		final: map[string]interface{}{"id": "tr_123", "status": "error", "error": "bad audio"},
	}
	server := httptest.NewServer(mock.handler())
	defer server.Close()

	metrics := &recordingMetrics{}
	result, err := newTestClient(server.URL, testKey, metrics).Transcribe(context.Background(), writeAudio(t))
	assert.Nil(t, result)

	var serviceErr *apperrors.TranscriptionServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, "bad audio", serviceErr.Message)
	assert.Equal(t, "tr_123", serviceErr.TranscriptID)
	assert.Equal(t, []string{"assemblyai:service_error"}, metrics.failures)
}

func TestTranscribeHTTPErrorIsServiceReported(t *testing.T) {
	mock := &mockAssemblyAI{t: t}
	server := httptest.NewServer(mock.handler())
	defer server.Close()

	_, err := newTestClient(server.URL, "wrong-key", nil).Transcribe(context.Background(), writeAudio(t))

	var serviceErr *apperrors.TranscriptionServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Equal(t, http.StatusUnauthorized, serviceErr.StatusCode)
	assert.Contains(t, serviceErr.Message, "Authentication error")
}

func TestTranscribeUploadRejected(t *testing.T) {
	mock := &mockAssemblyAI{t: t, uploadStatus: http.StatusBadRequest}
	server := httptest.NewServer(mock.handler())
	defer server.Close()

	_, err := newTestClient(server.URL, testKey, nil).Transcribe(context.Background(), writeAudio(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload rejected")
	assert.Nil(t, mock.submitted, "nothing may be submitted after a failed upload")
}

func TestTranscribeNetworkFailureIsNotServiceError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	metrics := &recordingMetrics{}
	_, err := newTestClient(url, testKey, metrics).Transcribe(context.Background(), writeAudio(t))
	require.Error(t, err)

	var serviceErr *apperrors.TranscriptionServiceError
	assert.False(t, errors.As(err, &serviceErr))

	var transportErr *provider.TranscriptionError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, "network_error", transportErr.Code)
	assert.Equal(t, []string{"assemblyai:network_error"}, metrics.failures)
}

func TestTranscribeUnknownStatus(t *testing.T) {
	mock := &mockAssemblyAI{t: t, final: map[string]interface{}{"id": "tr_123", "status": "exploded"}}
	server := httptest.NewServer(mock.handler())
	defer server.Close()

	_, err := newTestClient(server.URL, testKey, nil).Transcribe(context.Background(), writeAudio(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown transcript status "exploded"`)
}

func TestTranscribeMissingFile(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1", testKey, nil)
	_, err := client.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to open audio"))
}

func TestWaitHonoursContext(t *testing.T) {
	mock := &mockAssemblyAI{t: t, pendingPolls: 1 << 30}
	server := httptest.NewServer(mock.handler())
	defer server.Close()

	client := NewClient(Config{APIKey: testKey, BaseURL: server.URL, PollInterval: time.Hour,
		Transcription: provider.DefaultTranscriptionConfig()}, nil, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Transcribe(ctx, writeAudio(t))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid", Config{APIKey: "k", Transcription: provider.DefaultTranscriptionConfig()}, false},
		{"missing key", Config{Transcription: provider.DefaultTranscriptionConfig()}, true},
		{"bad url", Config{APIKey: "k", BaseURL: "ftp://x", Transcription: provider.DefaultTranscriptionConfig()}, true},
		{"missing language", Config{APIKey: "k"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewClient(tt.config, nil, nil, nil).ValidateConfiguration()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	err := NewClient(Config{}, nil, nil, nil).ValidateConfiguration()
	assert.ErrorIs(t, err, apperrors.ErrCredentialMissing)
}

func TestProviderInfo(t *testing.T) {
	info := NewClient(Config{}, nil, nil, nil).GetProviderInfo()
	assert.Equal(t, ProviderName, info.Name)
	assert.True(t, info.SupportsDiarization)
	assert.Len(t, info.SupportedFormats, 7)
}
