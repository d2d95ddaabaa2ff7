package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "a2t/internal/app/errors"
	"a2t/internal/app/testutil"
)

type fixture struct {
	dir         string
	normalizer  *testutil.MockNormalizer
	transcriber *testutil.MockTranscriber
	pipeline    *Pipeline
}

func newFixture(t *testing.T, maxBytes int64) *fixture {
	t.Helper()
	f := &fixture{
		dir:         filepath.Join(t.TempDir(), "scratch"),
		normalizer:  testutil.NewMockNormalizer(t),
		transcriber: testutil.NewMockTranscriber(t),
	}
	f.pipeline = New(Config{ScratchDir: f.dir, MaxUploadBytes: maxBytes}, f.normalizer, f.transcriber, NewMetrics(nil), nil)
	return f
}

func upload(name string) Upload {
	data := []byte("ID3 fake audio payload")
	return Upload{Filename: name, Size: int64(len(data)), Body: bytes.NewReader(data)}
}

func assertNoScratchFiles(t *testing.T, dir string) {
	t.Helper()
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return
	}
	testutil.AssertDirEmpty(t, dir)
}

func TestRunSuccess(t *testing.T) {
	f := newFixture(t, 0)
	f.normalizer.ExpectSuccess().Run(func(args mock.Arguments) {
		src := args.String(1)
		assert.True(t, strings.HasSuffix(src, ".mp3"), src)
		assert.FileExists(t, src)
		assert.True(t, strings.HasSuffix(args.String(2), ".wav"))
	})
	f.transcriber.ExpectResult(testutil.GreetingUtterances...)

	var observed []Stage
	out, err := f.pipeline.Run(context.Background(), upload("interview.mp3"), func(s Stage, _ string) {
		observed = append(observed, s)
	})
	require.NoError(t, err)

	assert.Equal(t, testutil.GreetingTranscript, out.Transcript)
	assert.Equal(t, "interview_transcripcion.txt", out.DownloadName)
	assert.Equal(t, testutil.GreetingUtterances, out.Utterances)
	assert.Equal(t, []Stage{StageConverting, StageTranscribing, StageDone}, out.Stages)
	assert.Equal(t, []string{MessageConverting, MessageTranscribing, MessageDone}, out.Messages)
	assert.Equal(t, out.Stages, observed)

	calls := f.transcriber.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].Existed, "canonical wav must exist while transcribing")
	assert.True(t, strings.HasSuffix(calls[0].AudioPath, ".wav"))

	assertNoScratchFiles(t, f.dir)
	f.normalizer.AssertExpectations(t)
	f.transcriber.AssertExpectations(t)
}

func TestRunUnsupportedFormatWritesNothing(t *testing.T) {
	f := newFixture(t, 0)

	out, err := f.pipeline.Run(context.Background(), upload("notes.txt"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
	assert.Contains(t, Describe(err), "wav, mp3, m4a")
	assert.Empty(t, out.Transcript)
	assert.Equal(t, []Stage{StageConverting, StageFailed}, out.Stages)

	_, statErr := os.Stat(f.dir)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "no scratch workspace should be created")
	f.normalizer.AssertNotCalled(t, "Normalize", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunRejectsOversizedUpload(t *testing.T) {
	f := newFixture(t, 8)

	_, err := f.pipeline.Run(context.Background(), upload("big.wav"), nil)
	assert.ErrorIs(t, err, apperrors.ErrUploadTooLarge)

	// Undeclared size is caught while copying.
	u := upload("big.wav")
	u.Size = -1
	_, err = f.pipeline.Run(context.Background(), u, nil)
	assert.ErrorIs(t, err, apperrors.ErrUploadTooLarge)
	assertNoScratchFiles(t, f.dir)
}

func TestRunDecodeError(t *testing.T) {
	f := newFixture(t, 0)
	f.normalizer.ExpectError(apperrors.NewDecodeError("upload-123.ogg", "Invalid data found when processing input", errors.New("exit status 1")))

	out, err := f.pipeline.Run(context.Background(), upload("broken.ogg"), nil)

	var decodeErr *apperrors.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "broken.ogg", decodeErr.Filename)
	assert.Equal(t, []Stage{StageConverting, StageFailed}, out.Stages)
	assert.Contains(t, out.Messages[len(out.Messages)-1], "Invalid data found")
	assertNoScratchFiles(t, f.dir)
	f.transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything)
}

func TestRunServiceErrorResult(t *testing.T) {
	f := newFixture(t, 0)
	f.normalizer.ExpectSuccess()
	f.transcriber.On("Transcribe", mock.Anything, mock.Anything).Return(testutil.ErrorResult("bad audio"), nil)

	out, err := f.pipeline.Run(context.Background(), upload("call.flac"), nil)

	var serviceErr *apperrors.TranscriptionServiceError
	require.True(t, errors.As(err, &serviceErr))
	assert.Empty(t, out.Transcript)
	assert.Empty(t, out.DownloadName)
	assert.Contains(t, Describe(err), "bad audio")
	assert.Equal(t, []Stage{StageConverting, StageTranscribing, StageFailed}, out.Stages)
	assertNoScratchFiles(t, f.dir)
}

func TestRunServiceErrorReturned(t *testing.T) {
	f := newFixture(t, 0)
	f.normalizer.ExpectSuccess()
	f.transcriber.ExpectError(&apperrors.TranscriptionServiceError{Provider: "assemblyai", Message: "bad audio"})

	_, err := f.pipeline.Run(context.Background(), upload("call.opus"), nil)
	assert.Equal(t, "Transcription error: bad audio", Describe(err))
	assertNoScratchFiles(t, f.dir)
}

func TestRunUnexpectedError(t *testing.T) {
	f := newFixture(t, 0)
	f.normalizer.ExpectSuccess()
	f.transcriber.ExpectError(errors.New("dial tcp: connection refused"))

	_, err := f.pipeline.Run(context.Background(), upload("call.aac"), nil)

	var unexpected *apperrors.UnexpectedError
	require.True(t, errors.As(err, &unexpected))
	assert.Equal(t, "An unexpected error occurred: dial tcp: connection refused", Describe(err))
	assertNoScratchFiles(t, f.dir)
}

func TestRunRecoversPanicAndCleansUp(t *testing.T) {
	f := newFixture(t, 0)
	f.normalizer.ExpectSuccess()
	f.transcriber.On("Transcribe", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("transcriber exploded")
	})

	var out *Outcome
	var err error
	require.NotPanics(t, func() {
		out, err = f.pipeline.Run(context.Background(), upload("x.m4a"), nil)
	})

	var unexpected *apperrors.UnexpectedError
	require.True(t, errors.As(err, &unexpected))
	assert.Contains(t, err.Error(), "transcriber exploded")
	assert.Equal(t, StageFailed, out.Stages[len(out.Stages)-1])

	calls := f.transcriber.Calls()
	require.Len(t, calls, 1)
	assert.NoFileExists(t, calls[0].AudioPath)
	assertNoScratchFiles(t, f.dir)
}

func TestRunCleansUpOnEveryPath(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"success", func(f *fixture) {
			f.normalizer.ExpectSuccess()
			f.transcriber.ExpectResult(testutil.InterviewUtterances...)
		}},
		{"decode failure", func(f *fixture) {
			f.normalizer.ExpectError(apperrors.NewDecodeError("a", "corrupt", nil))
		}},
		{"missing ffmpeg", func(f *fixture) {
			f.normalizer.ExpectError(errors.New("ffmpeg binary not found"))
		}},
		{"service failure", func(f *fixture) {
			f.normalizer.ExpectSuccess()
			f.transcriber.ExpectError(&apperrors.TranscriptionServiceError{Message: "bad audio"})
		}},
		{"normalizer panic", func(f *fixture) {
			f.normalizer.On("Normalize", mock.Anything, mock.Anything, mock.Anything).Run(func(mock.Arguments) {
				panic("decoder bug")
			})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0)
			tt.setup(f)
			_, _ = f.pipeline.Run(context.Background(), upload("session.wav"), nil)
			assertNoScratchFiles(t, f.dir)
		})
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "", Describe(nil))
	assert.Equal(t, "An unexpected error occurred: boom", Describe(errors.New("boom")))
	assert.Contains(t, Describe(apperrors.NewDecodeError("a.mp3", "Header missing", nil)), "Header missing")
}
