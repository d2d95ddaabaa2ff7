package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"a2t/internal/app/model"
)

// Utterance fixtures shared across packages.
var (
	InterviewUtterances = []model.Utterance{
		{Speaker: "A", Text: "Buenos días, gracias por venir."},
		{Speaker: "B", Text: "Gracias a usted por la invitación."},
		{Speaker: "A", Text: "Empecemos por su trayectoria."},
	}

	GreetingUtterances = []model.Utterance{
		{Speaker: "A", Text: "Hello"},
		{Speaker: "B", Text: "Hi there"},
	}
)

// GreetingTranscript is GreetingUtterances rendered.
const GreetingTranscript = "Speaker A: Hello\nSpeaker B: Hi there"

// CompletedResult builds a successful transcription result.
func CompletedResult(utterances ...model.Utterance) *model.TranscriptionResult {
	return &model.TranscriptionResult{
		ID:           "tr_test",
		Status:       model.StatusCompleted,
		LanguageCode: "es",
		Utterances:   utterances,
	}
}

// ErrorResult builds a result the service marked as failed.
func ErrorResult(message string) *model.TranscriptionResult {
	return &model.TranscriptionResult{ID: "tr_test", Status: model.StatusError, Error: message}
}

// WAVHeader returns the 44 byte header of an empty 16 kHz mono PCM WAV.
func WAVHeader() []byte {
	const (
		sampleRate    = 16000
		channels      = 1
		bitsPerSample = 16
	)
	h := make([]byte, 44)
	copy(h[0:], "RIFF")
	binary.LittleEndian.PutUint32(h[4:], 36)
	copy(h[8:], "WAVEfmt ")
	binary.LittleEndian.PutUint32(h[16:], 16)
	binary.LittleEndian.PutUint16(h[20:], 1)
	binary.LittleEndian.PutUint16(h[22:], channels)
	binary.LittleEndian.PutUint32(h[24:], sampleRate)
	binary.LittleEndian.PutUint32(h[28:], sampleRate*channels*bitsPerSample/8)
	binary.LittleEndian.PutUint16(h[32:], channels*bitsPerSample/8)
	binary.LittleEndian.PutUint16(h[34:], bitsPerSample)
	copy(h[36:], "data")
	return h
}

// WriteAudioFile writes a small fake audio file named name into a temp dir.
func WriteAudioFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, WAVHeader(), 0o644))
	return path
}

// AssertDirEmpty fails the test if dir contains any entry.
func AssertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Empty(t, names, "temporary files left behind in %s", dir)
}
