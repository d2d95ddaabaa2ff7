package transcript

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"a2t/internal/app/model"
)

func TestFormatTwoSpeakers(t *testing.T) {
	got := Format([]model.Utterance{
		{Speaker: "A", Text: "Hello"},
		{Speaker: "B", Text: "Hi there"},
	})
	assert.Equal(t, "Speaker A: Hello\nSpeaker B: Hi there", got)
}

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "", Format([]model.Utterance{}))
}

func TestFormatKeepsTextVerbatim(t *testing.T) {
	got := Format([]model.Utterance{
		{Speaker: "A", Text: "  sí, sí  "},
		{Speaker: "A", Text: "  sí, sí  "},
	})
	assert.Equal(t, "Speaker A:   sí, sí  \nSpeaker A:   sí, sí  ", got)
}

func TestFormatIsDeterministicAndOrderPreserving(t *testing.T) {
	utterances := []model.Utterance{
		{Speaker: "B", Text: "segundo"},
		{Speaker: "A", Text: "primero"},
		{Speaker: "C", Text: "tercero"},
		{Speaker: "A", Text: "otra vez"},
	}

	assert.Equal(t, Format(utterances), Format(utterances))

	reversed := lo.Reverse(append([]model.Utterance(nil), utterances...))
	lines := lo.Map(reversed, func(u model.Utterance, _ int) string { return Line(u) })
	assert.Equal(t, lo.Reverse(lines), lo.Map(utterances, func(u model.Utterance, _ int) string { return Line(u) }))
	assert.Equal(t, "Speaker A: otra vez\nSpeaker C: tercero\nSpeaker A: primero\nSpeaker B: segundo", Format(reversed))
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		upload string
		want   string
	}{
		{"interview.mp3", "interview_transcripcion.txt"},
		{"Reunión Lunes.M4A", "Reunión Lunes_transcripcion.txt"},
		{"my.song.flac", "my.song_transcripcion.txt"},
		{"/var/tmp/call.wav", "call_transcripcion.txt"},
		{"", "transcript_transcripcion.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.upload, func(t *testing.T) {
			assert.Equal(t, tt.want, DownloadName(tt.upload))
		})
	}
}

func BenchmarkFormat(b *testing.B) {
	utterances := lo.Times(500, func(i int) model.Utterance {
		return model.Utterance{Speaker: string(rune('A' + i%4)), Text: "una frase de prueba con algo de texto"}
	})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Format(utterances)
	}
}
