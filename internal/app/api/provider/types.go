package provider

// AudioFormat defines supported audio formats
type AudioFormat string

const (
	FormatWAV  AudioFormat = "wav"
	FormatMP3  AudioFormat = "mp3"
	FormatM4A  AudioFormat = "m4a"
	FormatOPUS AudioFormat = "opus"
	FormatOGG  AudioFormat = "ogg"
	FormatFLAC AudioFormat = "flac"
	FormatAAC  AudioFormat = "aac"
)

// ProviderType defines the type of transcription provider
type ProviderType string

const (
	ProviderTypeLocal  ProviderType = "local"
	ProviderTypeRemote ProviderType = "remote"
)

// TranscriptionConfig is the per-request configuration sent to the service.
type TranscriptionConfig struct {
	SpeakerLabels bool   `json:"speaker_labels" yaml:"speaker_labels"`
	LanguageCode  string `json:"language_code,omitempty" yaml:"language_code"`
	Punctuate     bool   `json:"punctuate" yaml:"punctuate"`
	FormatText    bool   `json:"format_text" yaml:"format_text"`
}

// DefaultTranscriptionConfig labels speakers, punctuates and formats Spanish audio.
func DefaultTranscriptionConfig() TranscriptionConfig {
	return TranscriptionConfig{
		SpeakerLabels: true,
		LanguageCode:  "es",
		Punctuate:     true,
		FormatText:    true,
	}
}

// ProviderInfo contains metadata about a transcription provider
type ProviderInfo struct {
	Name             string        `json:"name"`
	DisplayName      string        `json:"display_name"`
	Type             ProviderType  `json:"type"`
	SupportedFormats []AudioFormat `json:"supported_formats"`

	SupportsDiarization bool `json:"supports_diarization"`
	RequiresInternet    bool `json:"requires_internet"`
	RequiresAPIKey      bool `json:"requires_api_key"`
}

// TranscriptionError represents provider-specific transport or protocol errors
// that the service itself did not report as a transcript failure.
type TranscriptionError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Provider string `json:"provider"`
}

func (e *TranscriptionError) Error() string {
	return e.Message
}
