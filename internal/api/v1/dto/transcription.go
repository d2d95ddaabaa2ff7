package dto

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/samber/lo"

	"a2t/internal/api/errors"
	"a2t/internal/app/audio"
	"a2t/internal/app/model"
	"a2t/internal/app/pipeline"
	"a2t/internal/app/session"
)

// UploadForm is the multipart form posted by the page and the JSON API.
type UploadForm struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
}

// Validate performs domain-specific validation
func (f *UploadForm) Validate() error {
	if f.File == nil {
		return errors.NewValidationError("Invalid upload", map[string]string{"file": "is required"})
	}
	if strings.TrimSpace(f.File.Filename) == "" {
		return errors.NewValidationError("Invalid upload", map[string]string{"file": "filename is required"})
	}
	if !audio.IsSupported(audio.ExtOf(f.File.Filename)) {
		return &errors.APIError{
			Kind:    errors.KindUnsupportedMedia,
			Message: "Unsupported audio format",
			Code:    "unsupported_format",
			Details: map[string]string{
				"file":     f.File.Filename,
				"accepted": strings.Join(audio.SupportedExtensions, ", "),
			},
		}
	}
	return nil
}

// UtteranceResponse is one speaker turn in API responses
type UtteranceResponse struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// TranscriptionResponse represents a finished upload in API responses
type TranscriptionResponse struct {
	Status           string              `json:"status"`
	Filename         string              `json:"filename"`
	DownloadName     string              `json:"download_name"`
	Transcript       string              `json:"transcript"`
	Utterances       []UtteranceResponse `json:"utterances"`
	Messages         []string            `json:"messages,omitempty"`
	AudioDurationSec float64             `json:"audio_duration_sec,omitempty"`
}

// NewTranscriptionResponse converts a successful pipeline outcome.
func NewTranscriptionResponse(outcome *pipeline.Outcome) *TranscriptionResponse {
	return &TranscriptionResponse{
		Status:       string(pipeline.StageDone),
		Filename:     outcome.Filename,
		DownloadName: outcome.DownloadName,
		Transcript:   outcome.Transcript,
		Utterances: lo.Map(outcome.Utterances, func(u model.Utterance, _ int) UtteranceResponse {
			return UtteranceResponse{Speaker: u.Speaker, Text: u.Text}
		}),
		Messages:         outcome.Messages,
		AudioDurationSec: outcome.AudioDuration.Seconds(),
	}
}

// SessionResponse is the caller's display slot
type SessionResponse struct {
	HasTranscript bool       `json:"has_transcript"`
	Transcript    string     `json:"transcript,omitempty"`
	SourceName    string     `json:"source_name,omitempty"`
	DownloadName  string     `json:"download_name,omitempty"`
	Stage         string     `json:"stage"`
	Messages      []string   `json:"messages,omitempty"`
	Error         string     `json:"error,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// NewSessionResponse converts a stored display slot.
func NewSessionResponse(state session.State) *SessionResponse {
	resp := &SessionResponse{
		HasTranscript: state.HasTranscript(),
		Transcript:    state.Transcript,
		SourceName:    state.SourceName,
		DownloadName:  state.DownloadName,
		Stage:         state.Stage,
		Messages:      state.Messages,
		Error:         state.Error,
	}
	if resp.Stage == "" {
		resp.Stage = string(pipeline.StageIdle)
	}
	if !state.UpdatedAt.IsZero() {
		updated := state.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}
