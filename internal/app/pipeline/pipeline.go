// Package pipeline runs one upload through conversion, transcription and formatting.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"a2t/internal/app/api"
	"a2t/internal/app/audio"
	apperrors "a2t/internal/app/errors"
	"a2t/internal/app/model"
	"a2t/internal/app/transcript"
	"a2t/internal/app/util/files"
)

// Upload is one file as received from the user.
type Upload struct {
	Filename string
	// Size is the declared size in bytes, or <= 0 when unknown.
	Size int64
	Body io.Reader
}

// Outcome describes a finished run. Stages and Messages are filled on every
// path; the transcript fields only on success.
type Outcome struct {
	Filename      string
	Utterances    []model.Utterance
	Transcript    string
	DownloadName  string
	AudioDuration time.Duration
	Stages        []Stage
	Messages      []string
}

// Config holds the pipeline's tunables.
type Config struct {
	ScratchDir     string
	MaxUploadBytes int64
}

// Pipeline is safe for concurrent use; every Run gets its own scratch workspace.
type Pipeline struct {
	config      Config
	normalizer  audio.Normalizer
	transcriber api.Transcriber
	metrics     *Metrics
	logger      *zap.Logger
}

// New creates a pipeline. metrics and logger may be nil.
func New(config Config, normalizer audio.Normalizer, transcriber api.Transcriber, metrics *Metrics, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		config:      config,
		normalizer:  normalizer,
		transcriber: transcriber,
		metrics:     metrics,
		logger:      logger,
	}
}

// Run processes upload. Every temp file it creates is removed before it
// returns, including when a dependency panics; a panic is reported as an
// UnexpectedError. observe may be nil.
func (p *Pipeline) Run(ctx context.Context, upload Upload, observe Observer) (outcome *Outcome, err error) {
	outcome = &Outcome{Filename: upload.Filename}
	tracker := NewTracker(func(stage Stage, message string) {
		outcome.Stages = append(outcome.Stages, stage)
		outcome.Messages = append(outcome.Messages, message)
		if observe != nil {
			observe(stage, message)
		}
	})
	logger := p.logger.With(zap.String("filename", upload.Filename))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			err = apperrors.Unexpected(fmt.Errorf("panic: %v", r))
		}
		if err != nil {
			*outcome = Outcome{Filename: upload.Filename, Stages: outcome.Stages, Messages: outcome.Messages}
			tracker.Fail(Describe(err))
			p.metrics.observeRun(outcomeLabel(err))
			logger.Warn("upload failed", zap.Error(err))
			return
		}
		p.metrics.observeRun("done")
	}()

	if err := tracker.Advance(StageConverting, MessageConverting); err != nil {
		return outcome, apperrors.Unexpected(err)
	}
	started := time.Now()

	ext := audio.ExtOf(upload.Filename)
	if !audio.IsSupported(ext) {
		return outcome, apperrors.Wrapf(apperrors.ErrUnsupportedFormat, "file %q", upload.Filename)
	}
	if p.tooLarge(upload.Size) {
		return outcome, p.sizeError(upload.Filename)
	}

	scratch, err := files.NewScratch(p.config.ScratchDir)
	if err != nil {
		return outcome, apperrors.Unexpected(err)
	}
	defer func() {
		if cerr := scratch.Close(); cerr != nil {
			logger.Error("failed to remove temporary files", zap.Error(cerr))
		}
	}()

	body := upload.Body
	if p.config.MaxUploadBytes > 0 {
		body = io.LimitReader(body, p.config.MaxUploadBytes+1)
	}
	src, n, err := scratch.WriteFrom(files.TempPattern("upload", ext), body)
	if err != nil {
		return outcome, apperrors.Unexpected(err)
	}
	if p.tooLarge(n) {
		return outcome, p.sizeError(upload.Filename)
	}
	p.metrics.observeUpload(n)

	dst, err := scratch.CreatePath(files.TempPattern("canonical", audio.CanonicalExt))
	if err != nil {
		return outcome, apperrors.Unexpected(err)
	}

	normalized, err := p.normalizer.Normalize(ctx, src, dst)
	if err != nil {
		var decodeErr *apperrors.DecodeError
		if errors.As(err, &decodeErr) {
			// Report the user's filename rather than the scratch name.
			decodeErr.Filename = upload.Filename
		}
		return outcome, apperrors.Unexpected(err)
	}
	p.metrics.observeStage(StageConverting, started)
	logger.Info("audio normalized", zap.Int64("bytes", n), zap.Duration("duration", normalized.Duration))

	if err := tracker.Advance(StageTranscribing, MessageTranscribing); err != nil {
		return outcome, apperrors.Unexpected(err)
	}
	started = time.Now()

	result, err := p.transcriber.Transcribe(ctx, normalized.Path)
	if err != nil {
		return outcome, apperrors.Unexpected(err)
	}
	if result.Status == model.StatusError {
		return outcome, &apperrors.TranscriptionServiceError{
			Provider:     "transcription",
			TranscriptID: result.ID,
			Message:      result.Error,
		}
	}
	p.metrics.observeStage(StageTranscribing, started)

	outcome.Utterances = result.Utterances
	outcome.Transcript = transcript.Format(result.Utterances)
	outcome.DownloadName = transcript.DownloadName(upload.Filename)
	outcome.AudioDuration = result.AudioDuration
	if outcome.AudioDuration == 0 {
		outcome.AudioDuration = normalized.Duration
	}

	if err := tracker.Advance(StageDone, MessageDone); err != nil {
		return outcome, apperrors.Unexpected(err)
	}
	logger.Info("upload transcribed", zap.Int("utterances", len(result.Utterances)))
	return outcome, nil
}

func (p *Pipeline) tooLarge(n int64) bool {
	return p.config.MaxUploadBytes > 0 && n > p.config.MaxUploadBytes
}

func (p *Pipeline) sizeError(filename string) error {
	return apperrors.Wrapf(apperrors.ErrUploadTooLarge, "file %q is over %d MB", filename, p.config.MaxUploadBytes>>20)
}

// Describe turns a pipeline error into the message shown to the user.
func Describe(err error) string {
	var (
		decodeErr  *apperrors.DecodeError
		serviceErr *apperrors.TranscriptionServiceError
		unexpected *apperrors.UnexpectedError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, apperrors.ErrUnsupportedFormat):
		return fmt.Sprintf("%s (accepted: %s)", err.Error(), strings.Join(audio.SupportedExtensions, ", "))
	case errors.Is(err, apperrors.ErrUploadTooLarge):
		return err.Error()
	case errors.As(err, &decodeErr):
		return err.Error()
	case errors.As(err, &serviceErr):
		return "Transcription error: " + serviceErr.Message
	case errors.As(err, &unexpected):
		return "An unexpected error occurred: " + unexpected.Unwrap().Error()
	default:
		return "An unexpected error occurred: " + err.Error()
	}
}

func outcomeLabel(err error) string {
	var (
		decodeErr  *apperrors.DecodeError
		serviceErr *apperrors.TranscriptionServiceError
	)
	switch {
	case errors.Is(err, apperrors.ErrUnsupportedFormat), errors.Is(err, apperrors.ErrUploadTooLarge):
		return "rejected"
	case errors.As(err, &decodeErr):
		return "decode_error"
	case errors.As(err, &serviceErr):
		return "service_error"
	default:
		return "unexpected_error"
	}
}
