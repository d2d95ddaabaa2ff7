package provider

import (
	"a2t/internal/app/api"
)

// TranscriptionProvider is a Transcriber that can describe and validate itself.
type TranscriptionProvider interface {
	api.Transcriber

	// Provider metadata and capabilities
	GetProviderInfo() ProviderInfo

	// Configuration validation
	ValidateConfiguration() error
}

// ProviderMetrics records per-provider outcomes.
type ProviderMetrics interface {
	// Record a successful transcription
	RecordSuccess(provider string, latencyMs int64, audioLengthSec float64)

	// Record a failed transcription
	RecordFailure(provider string, errorType string)
}
