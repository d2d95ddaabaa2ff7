package testutil

import (
	"context"
	"os"
	"sync"

	"github.com/stretchr/testify/mock"

	"a2t/internal/app/api"
	"a2t/internal/app/audio"
	"a2t/internal/app/model"
)

// MockTranscriber is a testify mock of api.Transcriber.
// It also records the audio paths it was handed and whether each still
// existed at call time, so tests can assert on temp-file lifetimes.
type MockTranscriber struct {
	mock.Mock

	mu    sync.Mutex
	calls []TranscriptionCall
}

// TranscriptionCall is one recorded Transcribe invocation.
type TranscriptionCall struct {
	AudioPath string
	Existed   bool
}

// NewMockTranscriber creates a mock bound to t's failure reporting.
func NewMockTranscriber(t mock.TestingT) *MockTranscriber {
	m := &MockTranscriber{}
	m.Test(t)
	return m
}

// Transcribe implements api.Transcriber.
func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string) (*model.TranscriptionResult, error) {
	_, statErr := os.Stat(audioPath)
	m.mu.Lock()
	m.calls = append(m.calls, TranscriptionCall{AudioPath: audioPath, Existed: statErr == nil})
	m.mu.Unlock()

	args := m.Called(ctx, audioPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TranscriptionResult), args.Error(1)
}

// Calls returns the recorded invocations.
func (m *MockTranscriber) Calls() []TranscriptionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TranscriptionCall(nil), m.calls...)
}

// ExpectResult makes every call succeed with utterances.
func (m *MockTranscriber) ExpectResult(utterances ...model.Utterance) *mock.Call {
	return m.On("Transcribe", mock.Anything, mock.Anything).Return(CompletedResult(utterances...), nil)
}

// ExpectError makes every call fail with err.
func (m *MockTranscriber) ExpectError(err error) *mock.Call {
	return m.On("Transcribe", mock.Anything, mock.Anything).Return(nil, err)
}

// MockNormalizer is a testify mock of audio.Normalizer. When no return
// value is configured it writes a stub WAV to dst, like ffmpeg would.
type MockNormalizer struct {
	mock.Mock
}

// NewMockNormalizer creates a mock bound to t's failure reporting.
func NewMockNormalizer(t mock.TestingT) *MockNormalizer {
	m := &MockNormalizer{}
	m.Test(t)
	return m
}

// Normalize implements audio.Normalizer.
func (m *MockNormalizer) Normalize(ctx context.Context, src, dst string) (*audio.NormalizedAudio, error) {
	args := m.Called(ctx, src, dst)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	if out, ok := args.Get(0).(*audio.NormalizedAudio); ok && out != nil {
		return out, nil
	}
	if err := os.WriteFile(dst, WAVHeader(), 0o600); err != nil {
		return nil, err
	}
	return &audio.NormalizedAudio{Path: dst}, nil
}

// ExpectSuccess makes every call write a stub WAV.
func (m *MockNormalizer) ExpectSuccess() *mock.Call {
	return m.On("Normalize", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
}

// ExpectError makes every call fail with err.
func (m *MockNormalizer) ExpectError(err error) *mock.Call {
	return m.On("Normalize", mock.Anything, mock.Anything, mock.Anything).Return(nil, err)
}

// Interface compliance checks
var (
	_ api.Transcriber  = (*MockTranscriber)(nil)
	_ audio.Normalizer = (*MockNormalizer)(nil)
)
