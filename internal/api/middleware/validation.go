package middleware

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"a2t/internal/api/errors"
)

// Validator interface for domain validation
type Validator interface {
	Validate() error
}

// ValidateForm binds a multipart form and checks struct tags and domain rules.
func ValidateForm(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindWith(req, binding.FormMultipart); err != nil {
		return bindingError(err, "form")
	}

	// Then, perform domain validation if the struct implements Validator
	if validator, ok := req.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// LimitBody caps the request body at limit bytes; multipart parsing fails past it.
func LimitBody(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func bindingError(err error, what string) error {
	validationErrors := make(map[string]string)

	var validationErrs validator.ValidationErrors
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &validationErrs):
		for _, fieldError := range validationErrs {
			field := strings.ToLower(fieldError.Field())

			switch fieldError.Tag() {
			case "required":
				validationErrors[field] = "is required"
			case "min":
				validationErrors[field] = "is too short"
			case "max":
				validationErrors[field] = "is too long"
			case "oneof":
				validationErrors[field] = "must be one of the allowed values"
			default:
				validationErrors[field] = "is invalid"
			}
		}
	case stderrors.As(err, &tooLarge), strings.Contains(err.Error(), "request body too large"):
		return &errors.APIError{
			Kind:    errors.KindTooLarge,
			Message: "Upload exceeds size limit",
			Code:    "upload_too_large",
		}
	default:
		validationErrors[what] = "invalid " + what + " data"
	}

	return errors.NewValidationError("Validation failed", validationErrors)
}
