package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"go.uber.org/zap"

	apperrors "a2t/internal/app/errors"
	"a2t/internal/app/pipeline"
	"a2t/internal/app/transcript"
)

// Runner executes one upload. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, upload pipeline.Upload, observe pipeline.Observer) (*pipeline.Outcome, error)
}

// Result is what happened to one input file.
type Result struct {
	Input   string
	Output  string
	Outcome *pipeline.Outcome
	Err     error
}

// Converter transcribes local audio files and writes each transcript to disk.
type Converter struct {
	runner Runner
	logger *zap.Logger
}

func NewConverter(runner Runner, logger *zap.Logger) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{
		runner: runner,
		logger: logger,
	}
}

// Do transcribes inputs one after another. Each transcript is written next to
// its input, or into outDir when it is set. A failed file does not stop the batch.
func (c *Converter) Do(ctx context.Context, inputs []string, outDir string) []Result {
	results := make([]Result, 0, len(inputs))
	for _, j := range c.plan(inputs, outDir) {
		results = append(results, c.convertFile(ctx, j))
	}
	return results
}

// job is one input with the transcript path it will write.
type job struct {
	input  string
	output string
	err    error
}

// plan resolves every output path before anything runs. An input whose
// transcript would land on a path already claimed by an earlier input fails
// with ErrOutputCollision instead of overwriting it.
func (c *Converter) plan(inputs []string, outDir string) []job {
	claimed := make(map[string]string, len(inputs))
	return lo.Map(inputs, func(input string, _ int) job {
		dir := outDir
		if dir == "" {
			dir = filepath.Dir(input)
		}
		j := job{input: input, output: filepath.Join(dir, transcript.DownloadName(filepath.Base(input)))}

		key := filepath.Clean(j.output)
		if abs, err := filepath.Abs(j.output); err == nil {
			key = abs
		}
		if first, ok := claimed[key]; ok {
			j.err = apperrors.Wrapf(apperrors.ErrOutputCollision, "%s and %s both write %s", first, input, j.output)
			c.logger.Warn("Skipping file", zap.String("file", input), zap.String("output", j.output), zap.String("claimed_by", first))
			return j
		}
		claimed[key] = input
		return j
	})
}

func (c *Converter) convertFile(ctx context.Context, j job) Result {
	input := j.input
	result := Result{Input: input}
	if j.err != nil {
		result.Err = j.err
		return result
	}
	logger := c.logger.With(zap.String("file", input))
	logger.Info("Processing file")

	f, err := os.Open(input)
	if err != nil {
		result.Err = apperrors.Wrap(err, "failed to open input")
		return result
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		result.Err = apperrors.Wrap(err, "failed to stat input")
		return result
	}

	outcome, err := c.runner.Run(ctx, pipeline.Upload{
		Filename: filepath.Base(input),
		Size:     info.Size(),
		Body:     f,
	}, func(stage pipeline.Stage, message string) {
		logger.Debug(message, zap.String("stage", string(stage)))
	})
	result.Outcome = outcome
	if err != nil {
		logger.Warn("Transcription failed", zap.String("reason", pipeline.Describe(err)))
		result.Err = err
		return result
	}

	if err := os.MkdirAll(filepath.Dir(j.output), 0o755); err != nil {
		result.Err = apperrors.Wrap(err, "failed to create output directory")
		return result
	}

	result.Output = j.output
	if err := os.WriteFile(result.Output, []byte(outcome.Transcript), 0o644); err != nil {
		result.Err = apperrors.Wrapf(apperrors.ErrFileWriteFailed, "write %s: %v", result.Output, err)
		return result
	}

	logger.Info("Transcription completed",
		zap.String("output", result.Output),
		zap.Int("utterances", len(outcome.Utterances)),
	)
	return result
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	return lo.CountBy(results, func(r Result) bool { return r.Err != nil })
}

// Summary is a one-line report of a batch.
func Summary(results []Result) string {
	failed := Failed(results)
	return fmt.Sprintf("%d transcribed, %d failed", len(results)-failed, failed)
}
