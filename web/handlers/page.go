package handlers

import (
	stderrors "errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"a2t/internal/api/errors"
	"a2t/internal/api/middleware"
	"a2t/internal/api/v1/dto"
	"a2t/internal/api/v1/services"
	"a2t/internal/app/audio"
	apperrors "a2t/internal/app/errors"
	"a2t/internal/app/logging"
	"a2t/internal/app/pipeline"
	"a2t/internal/app/session"
)

// PageTemplate is the template rendered by Index.
const PageTemplate = "index.html"

// PageHandler serves the upload form and the session's display slot.
type PageHandler struct {
	service     services.TranscriptionService
	maxUploadMB int
	logger      *zap.Logger
}

// pageData is what index.html renders.
type pageData struct {
	State       session.State
	Stage       string
	Accept      string
	Accepted    string
	MaxUploadMB int
}

// NewPageHandler creates the page handler.
func NewPageHandler(service services.TranscriptionService, maxUploadMB int, logger *zap.Logger) *PageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageHandler{service: service, maxUploadMB: maxUploadMB, logger: logger}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	state, err := h.service.CurrentState(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	stage := state.Stage
	if stage == "" {
		stage = string(pipeline.StageIdle)
	}
	accept := make([]string, len(audio.SupportedExtensions))
	for i, ext := range audio.SupportedExtensions {
		accept[i] = "." + ext
	}

	c.HTML(http.StatusOK, PageTemplate, pageData{
		State:       state,
		Stage:       stage,
		Accept:      strings.Join(accept, ","),
		Accepted:    strings.Join(audio.SupportedExtensions, ", "),
		MaxUploadMB: h.maxUploadMB,
	})
}

// Upload handles POST /upload. The result lands in the session's slot and
// the browser is redirected back to the page.
func (h *PageHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := middleware.SessionID(c)

	var form dto.UploadForm
	if err := middleware.ValidateForm(c, &form); err != nil {
		var apiErr *errors.APIError
		if !stderrors.As(err, &apiErr) {
			middleware.HandleError(c, err)
			return
		}
		filename := ""
		if form.File != nil {
			filename = form.File.Filename
		}
		logging.FromContext(ctx, h.logger).Info("upload rejected",
			zap.String("file", filename), zap.String("reason", apiErr.Message))
		if _, err := h.service.Reject(ctx, sessionID, filename, h.rejectMessage(apiErr, filename)); err != nil {
			middleware.HandleError(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	file, err := form.File.Open()
	if err != nil {
		middleware.HandleError(c, errors.NewBadRequestError("Failed to read uploaded file"))
		return
	}
	defer file.Close()

	if _, err := h.service.TranscribeForSession(ctx, sessionID, pipeline.Upload{
		Filename: form.File.Filename,
		Size:     form.File.Size,
		Body:     file,
	}); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// Download handles GET /download
func (h *PageHandler) Download(c *gin.Context) {
	state, err := h.service.CurrentState(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	if !state.HasTranscript() {
		c.String(http.StatusNotFound, "No transcript to download")
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": state.DownloadName}))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(state.Transcript))
}

// rejectMessage is the page text for an upload refused before the pipeline ran.
func (h *PageHandler) rejectMessage(apiErr *errors.APIError, filename string) string {
	switch apiErr.Kind {
	case errors.KindUnsupportedMedia:
		return pipeline.Describe(apperrors.Wrapf(apperrors.ErrUnsupportedFormat, "file %q", filename))
	case errors.KindTooLarge:
		if h.maxUploadMB > 0 {
			return fmt.Sprintf("%s (limit %d MB)", apiErr.Message, h.maxUploadMB)
		}
		return apiErr.Message
	default:
		return "Please choose an audio file to upload"
	}
}
