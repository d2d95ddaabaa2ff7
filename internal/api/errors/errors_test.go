package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "a2t/internal/app/errors"
)

func TestHTTPStatus(t *testing.T) {
	tests := map[ErrorKind]int{
		KindValidation:         http.StatusUnprocessableEntity,
		KindBadRequest:         http.StatusBadRequest,
		KindNotFound:           http.StatusNotFound,
		KindUnsupportedMedia:   http.StatusUnsupportedMediaType,
		KindTooLarge:           http.StatusRequestEntityTooLarge,
		KindUnprocessableAudio: http.StatusUnprocessableEntity,
		KindUpstream:           http.StatusBadGateway,
		KindServiceUnavailable: http.StatusServiceUnavailable,
		KindInternal:           http.StatusInternalServerError,
	}
	for kind, want := range tests {
		assert.Equal(t, want, (&APIError{Kind: kind}).HTTPStatus(), kind)
	}
}

func TestFromPipelineError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
		code string
	}{
		{"unsupported", apperrors.Wrap(apperrors.ErrUnsupportedFormat, "file"), KindUnsupportedMedia, "unsupported_format"},
		{"too large", apperrors.Wrap(apperrors.ErrUploadTooLarge, "file"), KindTooLarge, "upload_too_large"},
		{"decode", apperrors.NewDecodeError("a.mp3", "bad", nil), KindUnprocessableAudio, "decode_error"},
		{"service", &apperrors.TranscriptionServiceError{Message: "bad audio", TranscriptID: "t1"}, KindUpstream, "transcription_service_error"},
		{"unexpected", apperrors.Unexpected(stderrors.New("boom")), KindInternal, "unexpected_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromPipelineError(tt.err, "shown to user")
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, "shown to user", apiErr.Message)
		})
	}

	assert.Nil(t, FromPipelineError(nil, ""))

	existing := NewNotFoundError("transcript")
	assert.Same(t, existing, FromPipelineError(existing, "ignored"))
}

func TestWrapErrorKeepsDetails(t *testing.T) {
	orig := &APIError{Kind: KindValidation, Message: "x", Details: map[string]string{"file": "required"}, Code: "c"}
	wrapped := WrapError(orig, KindBadRequest, "bad")
	assert.Equal(t, orig.Details, wrapped.Details)
	assert.Equal(t, "c", wrapped.Code)
	assert.Nil(t, WrapError(nil, KindInternal, ""))
}
