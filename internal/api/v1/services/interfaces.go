package services

import (
	"context"

	"a2t/internal/api/v1/dto"
	"a2t/internal/app/pipeline"
	"a2t/internal/app/session"
)

// TranscriptionService defines the interface for transcription operations
type TranscriptionService interface {
	// TranscribeFile runs the pipeline without touching any session slot.
	TranscribeFile(ctx context.Context, upload pipeline.Upload) (*dto.TranscriptionResponse, error)
	// TranscribeForSession runs the pipeline and replaces the session's slot
	// with the result, or clears it and records the failure.
	TranscribeForSession(ctx context.Context, sessionID string, upload pipeline.Upload) (session.State, error)
	// Reject clears the session's slot for an upload refused before the pipeline ran.
	Reject(ctx context.Context, sessionID, filename, message string) (session.State, error)
	// CurrentState returns the session's slot.
	CurrentState(ctx context.Context, sessionID string) (session.State, error)
}

// Runner executes one upload. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, upload pipeline.Upload, observe pipeline.Observer) (*pipeline.Outcome, error)
}
