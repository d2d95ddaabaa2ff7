package model

// FFProbeOutput is the subset of `ffprobe -print_format json -show_streams -show_format`
// that the normalizer inspects.
type FFProbeOutput struct {
	Streams []FFProbeStream `json:"streams"`
	Format  struct {
		FormatName string  `json:"format_name"`
		Duration   float64 `json:"duration,string"`
	} `json:"format"`
}

type FFProbeStream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	SampleRate int    `json:"sample_rate,string"`
	Channels   int    `json:"channels"`
}
