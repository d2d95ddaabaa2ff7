package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	apperrors "a2t/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindInternal           ErrorKind = "internal"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindBadRequest         ErrorKind = "bad_request"
	KindUnsupportedMedia   ErrorKind = "unsupported_media"
	KindTooLarge           ErrorKind = "too_large"
	KindUnprocessableAudio ErrorKind = "unprocessable_audio"
	KindUpstream           ErrorKind = "upstream"
)

// APIError represents a structured API error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Code      string            `json:"code,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindUnprocessableAudio:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnsupportedMedia:
		return http.StatusUnsupportedMediaType
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindUpstream:
		return http.StatusBadGateway
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewServiceUnavailableError creates a service unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Kind:    KindServiceUnavailable,
		Message: message,
	}
}

// WrapError wraps an existing error with API error context
func WrapError(err error, kind ErrorKind, message string) *APIError {
	if err == nil {
		return nil
	}

	apiErr := &APIError{
		Kind:    kind,
		Message: message,
	}

	// If the original error is already an APIError, preserve details
	var origAPIErr *APIError
	if stderrors.As(err, &origAPIErr) {
		if origAPIErr.Details != nil {
			apiErr.Details = origAPIErr.Details
		}
		if origAPIErr.Code != "" {
			apiErr.Code = origAPIErr.Code
		}
	}

	return apiErr
}

// FromPipelineError maps a pipeline failure onto an APIError. message is
// the user facing text for the failure.
func FromPipelineError(err error, message string) *APIError {
	var (
		apiErr     *APIError
		decodeErr  *apperrors.DecodeError
		serviceErr *apperrors.TranscriptionServiceError
	)
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &apiErr):
		return apiErr
	case stderrors.Is(err, apperrors.ErrUnsupportedFormat):
		return &APIError{Kind: KindUnsupportedMedia, Message: message, Code: "unsupported_format"}
	case stderrors.Is(err, apperrors.ErrUploadTooLarge):
		return &APIError{Kind: KindTooLarge, Message: message, Code: "upload_too_large"}
	case stderrors.As(err, &decodeErr):
		return &APIError{Kind: KindUnprocessableAudio, Message: message, Code: "decode_error"}
	case stderrors.As(err, &serviceErr):
		apiErr := &APIError{Kind: KindUpstream, Message: message, Code: "transcription_service_error"}
		if serviceErr.TranscriptID != "" {
			apiErr.Details = map[string]string{"transcript_id": serviceErr.TranscriptID}
		}
		return apiErr
	case stderrors.Is(err, apperrors.ErrCredentialMissing):
		return &APIError{Kind: KindServiceUnavailable, Message: message, Code: "credential_missing"}
	default:
		return &APIError{Kind: KindInternal, Message: message, Code: "unexpected_error"}
	}
}
