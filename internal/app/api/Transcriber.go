package api

import (
	"context"

	"a2t/internal/app/model"
)

// Transcriber defines a transcription interface for converting a canonical WAV file
// into speaker-labelled utterances. Implementations block until the service
// reports a terminal status.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*model.TranscriptionResult, error)
}
