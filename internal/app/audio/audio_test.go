package audio

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "a2t/internal/app/errors"
	"a2t/internal/app/model"
)

type call struct {
	name string
	args []string
}

// fakeRunner answers ffmpeg and ffprobe invocations from canned output.
type fakeRunner struct {
	calls        []call
	ffmpegErr    error
	ffmpegStderr string
	probeOut     string
	probeErr     error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	switch name {
	case "ffmpeg":
		return nil, []byte(f.ffmpegStderr), f.ffmpegErr
	case "ffprobe":
		return []byte(f.probeOut), nil, f.probeErr
	}
	return nil, nil, fmt.Errorf("unexpected binary %s", name)
}

const canonicalProbe = `{
  "streams": [{"codec_type": "audio", "codec_name": "pcm_s16le", "sample_rate": "16000", "channels": 1}],
  "format": {"format_name": "wav", "duration": "12.500000"}
}`

func TestIsSupported(t *testing.T) {
	for _, ext := range []string{"wav", "mp3", "m4a", "opus", "ogg", "flac", "aac", ".MP3", " .Flac"} {
		assert.True(t, IsSupported(ext), ext)
	}
	for _, ext := range []string{"", "txt", "mp4", ".webm", "wma"} {
		assert.False(t, IsSupported(ext), ext)
	}
}

func TestExtOf(t *testing.T) {
	assert.Equal(t, "mp3", ExtOf("interview.MP3"))
	assert.Equal(t, "ogg", ExtOf("/a/b/c.d.ogg"))
	assert.Equal(t, "", ExtOf("README"))
}

func TestNormalizeBuildsCanonicalCommand(t *testing.T) {
	runner := &fakeRunner{probeOut: canonicalProbe}
	n := NewFFmpegNormalizer(FFmpegConfig{}, runner, nil)

	out, err := n.Normalize(context.Background(), "/tmp/upload-1.m4a", "/tmp/canonical-1.wav")
	require.NoError(t, err)

	require.Len(t, runner.calls, 2)
	ffmpeg := runner.calls[0]
	assert.Equal(t, "ffmpeg", ffmpeg.name)
	joined := strings.Join(ffmpeg.args, " ")
	assert.Contains(t, joined, "-i /tmp/upload-1.m4a")
	assert.Contains(t, joined, "-acodec pcm_s16le")
	assert.Contains(t, joined, "-ar 16000")
	assert.Contains(t, joined, "-ac 1")
	assert.Contains(t, joined, "-f wav")
	assert.Equal(t, "/tmp/canonical-1.wav", ffmpeg.args[len(ffmpeg.args)-1])
	assert.Equal(t, "-y", ffmpeg.args[0])

	assert.Equal(t, "ffprobe", runner.calls[1].name)
	assert.Equal(t, "/tmp/canonical-1.wav", out.Path)
	assert.Equal(t, 12500*time.Millisecond, out.Duration)
}

func TestNormalizeDecodeFailure(t *testing.T) {
	runner := &fakeRunner{
		ffmpegErr:    errors.New("exit status 1"),
		ffmpegStderr: "[mp3 @ 0x1] Header missing\n/tmp/upload-1.mp3: Invalid data found when processing input\n",
	}
	n := NewFFmpegNormalizer(FFmpegConfig{}, runner, nil)

	out, err := n.Normalize(context.Background(), "/tmp/upload-1.mp3", "/tmp/canonical-1.wav")
	assert.Nil(t, out)

	var decodeErr *apperrors.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "upload-1.mp3", decodeErr.Filename)
	assert.Contains(t, decodeErr.Detail, "Invalid data found")
	assert.Len(t, runner.calls, 1, "ffprobe must not run after a failed conversion")
}

func TestNormalizeMissingBinaryIsNotDecodeError(t *testing.T) {
	runner := &fakeRunner{ffmpegErr: &exec.Error{Name: "ffmpeg", Err: exec.ErrNotFound}}
	n := NewFFmpegNormalizer(FFmpegConfig{}, runner, nil)

	_, err := n.Normalize(context.Background(), "in.wav", "out.wav")
	require.Error(t, err)

	var decodeErr *apperrors.DecodeError
	assert.False(t, errors.As(err, &decodeErr))
	assert.Contains(t, err.Error(), "not found")
}

func TestNormalizeToleratesProbeFailure(t *testing.T) {
	runner := &fakeRunner{probeErr: errors.New("exit status 1")}
	n := NewFFmpegNormalizer(FFmpegConfig{}, runner, nil)

	out, err := n.Normalize(context.Background(), "in.flac", "out.wav")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), out.Duration)
}

func TestIsCanonicalProbe(t *testing.T) {
	tests := []struct {
		name   string
		stream model.FFProbeStream
		want   bool
	}{
		{"canonical", model.FFProbeStream{CodecType: "audio", CodecName: "pcm_s16le", SampleRate: 16000}, true},
		{"wrong rate", model.FFProbeStream{CodecType: "audio", CodecName: "pcm_s16le", SampleRate: 44100}, false},
		{"compressed", model.FFProbeStream{CodecType: "audio", CodecName: "mp3", SampleRate: 16000}, false},
		{"video stream", model.FFProbeStream{CodecType: "video", CodecName: "pcm_s16le", SampleRate: 16000}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := &model.FFProbeOutput{Streams: []model.FFProbeStream{tt.stream}}
			assert.Equal(t, tt.want, IsCanonicalProbe(probe, CanonicalSampleRate))
		})
	}
}

func TestIsCanonicalParsesProbeJSON(t *testing.T) {
	n := NewFFmpegNormalizer(FFmpegConfig{}, &fakeRunner{probeOut: canonicalProbe}, nil)
	ok, err := n.IsCanonical(context.Background(), "x.wav")
	require.NoError(t, err)
	assert.True(t, ok)

	n = NewFFmpegNormalizer(FFmpegConfig{}, &fakeRunner{probeOut: "not json"}, nil)
	_, err = n.IsCanonical(context.Background(), "x.wav")
	assert.Error(t, err)
}
