package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"a2t/internal/app/api/provider"
	apperrors "a2t/internal/app/errors"
	"a2t/internal/app/model"
)

const (
	ProviderName        = "assemblyai"
	DefaultBaseURL      = "https://api.assemblyai.com"
	DefaultPollInterval = 3 * time.Second
)

// Transcript statuses reported by the service.
const (
	statusQueued     = "queued"
	statusProcessing = "processing"
	statusCompleted  = "completed"
	statusError      = "error"
)

// Config represents configuration for the AssemblyAI client
type Config struct {
	APIKey        string
	BaseURL       string
	PollInterval  time.Duration
	Transcription provider.TranscriptionConfig
}

// Client implements provider.TranscriptionProvider against the AssemblyAI v2 REST API.
// It never retries and sets no timeout of its own; Transcribe returns only when the
// transcript reaches a terminal status or ctx is done.
type Client struct {
	config  Config
	client  *http.Client
	metrics provider.ProviderMetrics
	logger  *zap.Logger
}

var _ provider.TranscriptionProvider = (*Client)(nil)

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL string `json:"audio_url"`
	provider.TranscriptionConfig
}

type transcriptResponse struct {
	ID            string              `json:"id"`
	Status        string              `json:"status"`
	Error         string              `json:"error,omitempty"`
	LanguageCode  string              `json:"language_code,omitempty"`
	AudioDuration float64             `json:"audio_duration,omitempty"`
	Utterances    []utteranceResponse `json:"utterances"`
}

type utteranceResponse struct {
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewClient creates a client. httpClient, metrics and logger may be nil.
func NewClient(config Config, httpClient *http.Client, metrics provider.ProviderMetrics, logger *zap.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if metrics == nil {
		metrics = provider.NopMetrics{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config:  config,
		client:  httpClient,
		metrics: metrics,
		logger:  logger.With(zap.String("provider", ProviderName)),
	}
}

// GetProviderInfo returns provider information
func (c *Client) GetProviderInfo() provider.ProviderInfo {
	return provider.ProviderInfo{
		Name:        ProviderName,
		DisplayName: "AssemblyAI",
		Type:        provider.ProviderTypeRemote,
		SupportedFormats: []provider.AudioFormat{
			provider.FormatWAV, provider.FormatMP3, provider.FormatM4A, provider.FormatOPUS,
			provider.FormatOGG, provider.FormatFLAC, provider.FormatAAC,
		},
		SupportsDiarization: true,
		RequiresInternet:    true,
		RequiresAPIKey:      true,
	}
}

// ValidateConfiguration checks the client can issue requests.
func (c *Client) ValidateConfiguration() error {
	if strings.TrimSpace(c.config.APIKey) == "" {
		return apperrors.ErrCredentialMissing
	}
	u, err := url.Parse(c.config.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperrors.InvalidField("base URL", c.config.BaseURL)
	}
	if c.config.Transcription.LanguageCode == "" {
		return apperrors.RequiredField("language code")
	}
	return nil
}

// Transcribe uploads audioPath, requests a transcript and waits for it.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (*model.TranscriptionResult, error) {
	start := time.Now()

	result, err := c.transcribe(ctx, audioPath)
	if err != nil {
		c.metrics.RecordFailure(ProviderName, errorType(err))
		return nil, err
	}

	c.metrics.RecordSuccess(ProviderName, time.Since(start).Milliseconds(), result.AudioDuration.Seconds())
	return result, nil
}

func (c *Client) transcribe(ctx context.Context, audioPath string) (*model.TranscriptionResult, error) {
	uploadURL, err := c.upload(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	id, err := c.submit(ctx, uploadURL)
	if err != nil {
		return nil, err
	}
	c.logger.Info("transcript submitted",
		zap.String("transcript_id", id),
		zap.String("language_code", c.config.Transcription.LanguageCode),
		zap.Bool("speaker_labels", c.config.Transcription.SpeakerLabels),
	)

	tr, err := c.wait(ctx, id)
	if err != nil {
		return nil, err
	}

	if tr.Status == statusError {
		c.logger.Warn("transcript failed", zap.String("transcript_id", id), zap.String("error", tr.Error))
		return nil, &apperrors.TranscriptionServiceError{
			Provider:     ProviderName,
			TranscriptID: id,
			Message:      tr.Error,
		}
	}

	c.logger.Info("transcript completed",
		zap.String("transcript_id", id),
		zap.Int("utterances", len(tr.Utterances)),
		zap.Float64("audio_duration_sec", tr.AudioDuration),
	)

	return &model.TranscriptionResult{
		ID:            tr.ID,
		Status:        model.StatusCompleted,
		LanguageCode:  tr.LanguageCode,
		AudioDuration: time.Duration(tr.AudioDuration * float64(time.Second)),
		Utterances: lo.Map(tr.Utterances, func(u utteranceResponse, _ int) model.Utterance {
			return model.Utterance{Speaker: u.Speaker, Text: u.Text}
		}),
	}, nil
}

// upload streams the file to /v2/upload and returns the private URL the service assigns.
func (c *Client) upload(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to open audio for upload")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", apperrors.Wrap(err, "failed to stat audio for upload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v2/upload", f)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to build upload request")
	}
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", "application/octet-stream")

	var out uploadResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.UploadURL == "" {
		return "", &provider.TranscriptionError{Code: "invalid_response", Message: "upload response has no upload_url", Provider: ProviderName}
	}
	return out.UploadURL, nil
}

func (c *Client) submit(ctx context.Context, audioURL string) (string, error) {
	body, err := json.Marshal(transcriptRequest{AudioURL: audioURL, TranscriptionConfig: c.config.Transcription})
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode transcript request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to build transcript request")
	}
	req.Header.Set("Content-Type", "application/json")

	var out transcriptResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &provider.TranscriptionError{Code: "invalid_response", Message: "transcript response has no id", Provider: ProviderName}
	}
	return out.ID, nil
}

// wait polls the transcript until it is completed or errored.
func (c *Client) wait(ctx context.Context, id string) (*transcriptResponse, error) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		tr, err := c.get(ctx, id)
		if err != nil {
			return nil, err
		}

		switch tr.Status {
		case statusCompleted, statusError:
			return tr, nil
		case statusQueued, statusProcessing:
			c.logger.Debug("transcript pending", zap.String("transcript_id", id), zap.String("status", tr.Status))
		default:
			return nil, &provider.TranscriptionError{
				Code:     "invalid_response",
				Message:  fmt.Sprintf("unknown transcript status %q", tr.Status),
				Provider: ProviderName,
			}
		}

		timer.Reset(c.config.PollInterval)
	}
}

func (c *Client) get(ctx context.Context, id string) (*transcriptResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/v2/transcript/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build poll request")
	}

	var out transcriptResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends req with credentials and decodes a JSON body into out.
func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return &provider.TranscriptionError{
			Code:     "network_error",
			Message:  fmt.Sprintf("failed to call AssemblyAI API: %v", err),
			Provider: ProviderName,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &provider.TranscriptionError{
			Code:     "network_error",
			Message:  fmt.Sprintf("failed to read AssemblyAI response: %v", err),
			Provider: ProviderName,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleHTTPError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &provider.TranscriptionError{
			Code:     "invalid_response",
			Message:  fmt.Sprintf("failed to parse AssemblyAI response: %v", err),
			Provider: ProviderName,
		}
	}
	return nil
}

// handleHTTPError turns a non-2xx reply into the service-reported error.
func (c *Client) handleHTTPError(status int, body []byte) error {
	var parsed errorResponse
	msg := ""
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
		msg = parsed.Error
	} else if s := strings.TrimSpace(string(body)); s != "" {
		msg = s
	} else {
		msg = http.StatusText(status)
	}
	return &apperrors.TranscriptionServiceError{
		Provider:   ProviderName,
		StatusCode: status,
		Message:    msg,
	}
}

func errorType(err error) string {
	var (
		serviceErr   *apperrors.TranscriptionServiceError
		transportErr *provider.TranscriptionError
	)
	switch {
	case errors.As(err, &serviceErr):
		return "service_error"
	case errors.As(err, &transportErr):
		return transportErr.Code
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "unknown"
	}
}
