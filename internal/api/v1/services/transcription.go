package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"a2t/internal/api/errors"
	"a2t/internal/api/v1/dto"
	"a2t/internal/app/logging"
	"a2t/internal/app/pipeline"
	"a2t/internal/app/session"
)

// TranscriptionServiceImpl implements TranscriptionService
type TranscriptionServiceImpl struct {
	runner Runner
	store  session.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(runner Runner, store session.Store, logger *zap.Logger) *TranscriptionServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptionServiceImpl{
		runner: runner,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// TranscribeFile transcribes an upload and returns the result directly
func (s *TranscriptionServiceImpl) TranscribeFile(ctx context.Context, upload pipeline.Upload) (*dto.TranscriptionResponse, error) {
	outcome, err := s.run(ctx, upload)
	if err != nil {
		return nil, errors.FromPipelineError(err, pipeline.Describe(err))
	}
	return dto.NewTranscriptionResponse(outcome), nil
}

// TranscribeForSession transcribes an upload into the session's display slot
// The slot is written under the same detached context as the pipeline so a
// disconnected client still has its upload replace the slot.
func (s *TranscriptionServiceImpl) TranscribeForSession(ctx context.Context, sessionID string, upload pipeline.Upload) (session.State, error) {
	ctx = context.WithoutCancel(ctx)
	outcome, runErr := s.run(ctx, upload)

	state := session.State{
		SourceName: upload.Filename,
		Messages:   outcome.Messages,
		UpdatedAt:  s.now(),
	}
	if runErr != nil {
		state.Stage = string(pipeline.StageFailed)
		state.Error = pipeline.Describe(runErr)
	} else {
		state.Stage = string(pipeline.StageDone)
		state.Transcript = outcome.Transcript
		state.DownloadName = outcome.DownloadName
	}

	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return state, errors.WrapError(err, errors.KindServiceUnavailable, "Failed to store session")
	}
	return state, nil
}

// Reject records a refused upload and clears the slot
func (s *TranscriptionServiceImpl) Reject(ctx context.Context, sessionID, filename, message string) (session.State, error) {
	ctx = context.WithoutCancel(ctx)
	state := session.State{
		SourceName: filename,
		Stage:      string(pipeline.StageFailed),
		Error:      message,
		UpdatedAt:  s.now(),
	}
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return state, errors.WrapError(err, errors.KindServiceUnavailable, "Failed to store session")
	}
	return state, nil
}

// CurrentState returns the session's display slot
func (s *TranscriptionServiceImpl) CurrentState(ctx context.Context, sessionID string) (session.State, error) {
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return session.State{}, errors.WrapError(err, errors.KindServiceUnavailable, "Failed to load session")
	}
	return state, nil
}

// run executes the pipeline detached from client cancellation: once an
// upload is accepted it runs to a terminal status even if the browser goes away.
func (s *TranscriptionServiceImpl) run(ctx context.Context, upload pipeline.Upload) (*pipeline.Outcome, error) {
	logger := logging.FromContext(ctx, s.logger)
	detached := context.WithoutCancel(ctx)

	outcome, err := s.runner.Run(detached, upload, func(stage pipeline.Stage, message string) {
		logger.Info("pipeline stage", zap.String("stage", string(stage)), zap.String("message", message))
	})
	if outcome == nil {
		outcome = &pipeline.Outcome{Filename: upload.Filename}
	}
	return outcome, err
}

var _ TranscriptionService = (*TranscriptionServiceImpl)(nil)
