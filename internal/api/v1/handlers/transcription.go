package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"a2t/internal/api/errors"
	"a2t/internal/api/middleware"
	"a2t/internal/api/v1/dto"
	"a2t/internal/api/v1/services"
	"a2t/internal/app/pipeline"
)

// TranscriptionHandler handles transcription-related API endpoints
type TranscriptionHandler struct {
	service services.TranscriptionService
}

// NewTranscriptionHandler creates a new transcription handler
func NewTranscriptionHandler(service services.TranscriptionService) *TranscriptionHandler {
	return &TranscriptionHandler{
		service: service,
	}
}

// Upload handles POST /api/v1/transcriptions/upload
// Converts and transcribes the uploaded file, returning the speaker-labelled transcript.
//
// @Summary Transcribe an audio file
// @Description Convert the upload to 16 kHz WAV, transcribe it with speaker labels and return the transcript. The request blocks until the transcription finishes.
// @Tags transcriptions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Audio file (wav, mp3, m4a, opus, ogg, flac, aac)"
// @Success 200 {object} dto.TranscriptionResponse "Transcription completed"
// @Failure 413 {object} errors.APIError "Upload exceeds size limit"
// @Failure 415 {object} errors.APIError "Unsupported audio format"
// @Failure 422 {object} errors.APIError "Missing file or audio could not be decoded"
// @Failure 502 {object} errors.APIError "Transcription service reported an error"
// @Failure 500 {object} errors.APIError "Internal server error"
// @Router /transcriptions/upload [post]
func (h *TranscriptionHandler) Upload(c *gin.Context) {
	var form dto.UploadForm

	// Validate request
	if err := middleware.ValidateForm(c, &form); err != nil {
		middleware.HandleError(c, err)
		return
	}

	file, err := form.File.Open()
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Failed to read uploaded file"))
		return
	}
	defer file.Close()

	response, err := h.service.TranscribeFile(c.Request.Context(), pipeline.Upload{
		Filename: form.File.Filename,
		Size:     form.File.Size,
		Body:     file,
	})
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Current handles GET /api/v1/transcriptions/current
// Returns the caller's display slot.
//
// @Summary Get the session's current transcript
// @Description Return the transcript and status shown on the caller's upload page, keyed by the session cookie.
// @Tags transcriptions
// @Produce json
// @Success 200 {object} dto.SessionResponse "Current display slot"
// @Failure 503 {object} errors.APIError "Session store unavailable"
// @Router /transcriptions/current [get]
func (h *TranscriptionHandler) Current(c *gin.Context) {
	state, err := h.service.CurrentState(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSessionResponse(state))
}
