package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewObservedLogger returns a logger whose entries at level and above are
// captured for assertions.
func NewObservedLogger(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

// AssertLogged fails the test unless an entry with message carries every
// string field in fields.
func AssertLogged(t *testing.T, logs *observer.ObservedLogs, message string, fields map[string]string) bool {
	t.Helper()
	for _, entry := range logs.FilterMessage(message).All() {
		ctx := entry.ContextMap()
		matched := true
		for k, v := range fields {
			if got, ok := ctx[k].(string); !ok || got != v {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return assert.Fail(t, "log entry not found", "message %q with fields %v; got %d entries", message, fields, logs.Len())
}
