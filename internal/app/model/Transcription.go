package model

import "time"

// TranscriptStatus is the terminal state reported by the transcription service.
type TranscriptStatus string

const (
	StatusCompleted TranscriptStatus = "completed"
	StatusError     TranscriptStatus = "error"
)

// Utterance is one speaker turn.
type Utterance struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// TranscriptionResult is what a transcriber returns for one audio file.
// Utterances are in chronological order.
type TranscriptionResult struct {
	ID            string           `json:"id,omitempty"`
	Status        TranscriptStatus `json:"status"`
	Error         string           `json:"error,omitempty"`
	LanguageCode  string           `json:"language_code,omitempty"`
	AudioDuration time.Duration    `json:"audio_duration,omitempty"`
	Utterances    []Utterance      `json:"utterances"`
}
