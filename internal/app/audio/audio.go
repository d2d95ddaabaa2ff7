package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "a2t/internal/app/errors"
	"a2t/internal/app/model"
)

// Canonical output: 16 kHz signed 16-bit little-endian PCM in a WAV container.
const (
	CanonicalCodec      = "pcm_s16le"
	CanonicalSampleRate = 16000
	CanonicalExt        = "wav"
)

// SupportedExtensions lists the upload types accepted by the form.
var SupportedExtensions = []string{"wav", "mp3", "m4a", "opus", "ogg", "flac", "aac"}

// IsSupported reports whether ext (with or without the leading dot) is an accepted upload type.
func IsSupported(ext string) bool {
	return lo.Contains(SupportedExtensions, NormalizeExt(ext))
}

// NormalizeExt lowercases ext and strips the leading dot.
func NormalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

// ExtOf returns the normalized extension of filename.
func ExtOf(filename string) string {
	return NormalizeExt(filepath.Ext(filename))
}

// NormalizedAudio describes a canonical WAV produced by a Normalizer.
type NormalizedAudio struct {
	Path     string
	Duration time.Duration
}

// Normalizer re-encodes any supported container into canonical WAV.
type Normalizer interface {
	Normalize(ctx context.Context, src, dst string) (*NormalizedAudio, error)
}

// CommandRunner executes an external binary and returns its captured output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// FFmpegConfig configures FFmpegNormalizer.
type FFmpegConfig struct {
	FFmpegPath  string
	FFprobePath string
	SampleRate  int
	Channels    int
}

// FFmpegNormalizer shells out to ffmpeg for decoding and ffprobe for inspection.
type FFmpegNormalizer struct {
	config FFmpegConfig
	runner CommandRunner
	logger *zap.Logger
}

// NewFFmpegNormalizer creates a normalizer. A nil runner means ExecRunner.
func NewFFmpegNormalizer(config FFmpegConfig, runner CommandRunner, logger *zap.Logger) *FFmpegNormalizer {
	if config.FFmpegPath == "" {
		config.FFmpegPath = "ffmpeg"
	}
	if config.FFprobePath == "" {
		config.FFprobePath = "ffprobe"
	}
	if config.SampleRate == 0 {
		config.SampleRate = CanonicalSampleRate
	}
	if config.Channels == 0 {
		config.Channels = 1
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FFmpegNormalizer{config: config, runner: runner, logger: logger}
}

// Normalize decodes src and writes canonical WAV to dst, overwriting it.
// A source ffmpeg cannot parse yields *errors.DecodeError.
func (n *FFmpegNormalizer) Normalize(ctx context.Context, src, dst string) (*NormalizedAudio, error) {
	n.logger.Debug("converting to canonical wav", zap.String("src", src), zap.String("dst", dst))

	_, stderr, err := n.runner.Run(ctx, n.config.FFmpegPath, n.ffmpegArgs(src, dst)...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, apperrors.Wrapf(err, "ffmpeg binary %q not found", n.config.FFmpegPath)
		}
		return nil, apperrors.NewDecodeError(filepath.Base(src), lastLine(stderr), err)
	}

	out := &NormalizedAudio{Path: dst}
	duration, err := n.Duration(ctx, dst)
	if err != nil {
		// Duration only feeds metrics and logs.
		n.logger.Warn("could not probe normalized audio", zap.String("path", dst), zap.Error(err))
		return out, nil
	}
	out.Duration = duration

	n.logger.Debug("canonical wav ready", zap.String("dst", dst), zap.Duration("duration", duration))
	return out, nil
}

func (n *FFmpegNormalizer) ffmpegArgs(src, dst string) []string {
	return []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", src,
		"-vn",
		"-acodec", CanonicalCodec,
		"-ar", strconv.Itoa(n.config.SampleRate),
		"-ac", strconv.Itoa(n.config.Channels),
		"-f", CanonicalExt,
		dst,
	}
}

// Probe runs ffprobe on path.
func (n *FFmpegNormalizer) Probe(ctx context.Context, path string) (*model.FFProbeOutput, error) {
	stdout, stderr, err := n.runner.Run(ctx, n.config.FFprobePath,
		"-v", "quiet", "-print_format", "json", "-show_streams", "-show_format", path)
	if err != nil {
		return nil, apperrors.Wrapf(err, "ffprobe failed: %s", lastLine(stderr))
	}

	var probe model.FFProbeOutput
	if err := json.Unmarshal(stdout, &probe); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse ffprobe output")
	}
	return &probe, nil
}

// Duration returns the container duration reported by ffprobe.
func (n *FFmpegNormalizer) Duration(ctx context.Context, path string) (time.Duration, error) {
	probe, err := n.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	return time.Duration(probe.Format.Duration * float64(time.Second)), nil
}

// IsCanonical reports whether path already holds canonical WAV.
func (n *FFmpegNormalizer) IsCanonical(ctx context.Context, path string) (bool, error) {
	probe, err := n.Probe(ctx, path)
	if err != nil {
		return false, err
	}
	return IsCanonicalProbe(probe, n.config.SampleRate), nil
}

// IsCanonicalProbe checks a probe result for a pcm_s16le stream at sampleRate.
func IsCanonicalProbe(probe *model.FFProbeOutput, sampleRate int) bool {
	return lo.SomeBy(probe.Streams, func(s model.FFProbeStream) bool {
		return s.CodecType == "audio" && s.CodecName == CanonicalCodec && s.SampleRate == sampleRate
	})
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
