package pipeline

import (
	"fmt"

	"github.com/samber/lo"
)

// Stage is a step of the per-upload state machine:
// Idle -> Converting -> Transcribing -> Done|Failed -> Idle.
type Stage string

const (
	StageIdle         Stage = "idle"
	StageConverting   Stage = "converting"
	StageTranscribing Stage = "transcribing"
	StageDone         Stage = "done"
	StageFailed       Stage = "failed"
)

// Status messages shown to the user as each stage is reached.
const (
	MessageConverting   = "Converting audio to WAV"
	MessageTranscribing = "Sending to AssemblyAI for transcription"
	MessageDone         = "Transcription completed"
)

var transitions = map[Stage][]Stage{
	StageIdle:         {StageConverting},
	StageConverting:   {StageTranscribing, StageFailed},
	StageTranscribing: {StageDone, StageFailed},
	StageDone:         {StageIdle},
	StageFailed:       {StageIdle},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to Stage) bool {
	return lo.Contains(transitions[from], to)
}

// Terminal reports whether s ends an upload.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// Observer is notified every time the tracker enters a stage.
type Observer func(stage Stage, message string)

// Tracker walks one upload through the state machine.
type Tracker struct {
	current Stage
	history []Stage
	observe Observer
}

// NewTracker starts in StageIdle. observe may be nil.
func NewTracker(observe Observer) *Tracker {
	return &Tracker{current: StageIdle, observe: observe}
}

// Current returns the stage the tracker is in.
func (t *Tracker) Current() Stage {
	return t.current
}

// History returns every stage entered after Idle, in order.
func (t *Tracker) History() []Stage {
	return append([]Stage(nil), t.history...)
}

// Advance moves to next, rejecting transitions that skip a stage.
func (t *Tracker) Advance(next Stage, message string) error {
	if !CanTransition(t.current, next) {
		return fmt.Errorf("invalid stage transition %s -> %s", t.current, next)
	}
	t.current = next
	t.history = append(t.history, next)
	if t.observe != nil {
		t.observe(next, message)
	}
	return nil
}

// Fail moves to StageFailed from any non-terminal stage. A tracker still in
// Idle passes through Converting first so no stage is skipped.
func (t *Tracker) Fail(message string) {
	if t.current.Terminal() {
		return
	}
	if t.current == StageIdle {
		_ = t.Advance(StageConverting, MessageConverting)
	}
	_ = t.Advance(StageFailed, message)
}

// Reset returns a finished tracker to Idle, ready for the next upload.
func (t *Tracker) Reset() {
	if t.current.Terminal() {
		t.current = StageIdle
		t.history = nil
	}
}
