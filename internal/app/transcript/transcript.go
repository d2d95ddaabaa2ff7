// Package transcript renders diarized utterances as plain text.
package transcript

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"a2t/internal/app/model"
	"a2t/internal/app/util/files"
)

// DownloadSuffix is appended to the upload's base name to build the download filename.
const DownloadSuffix = "_transcripcion.txt"

// Line renders a single utterance.
func Line(u model.Utterance) string {
	return fmt.Sprintf("Speaker %s: %s", u.Speaker, u.Text)
}

// Format renders one line per utterance in the order given, joined by newlines.
// Text is not trimmed or deduplicated.
func Format(utterances []model.Utterance) string {
	return strings.Join(lo.Map(utterances, func(u model.Utterance, _ int) string {
		return Line(u)
	}), "\n")
}

// DownloadName derives the artifact name for an uploaded file,
// e.g. "interview.mp3" becomes "interview_transcripcion.txt".
func DownloadName(upload string) string {
	base := files.BaseName(upload)
	if base == "" {
		base = "transcript"
	}
	return base + DownloadSuffix
}
