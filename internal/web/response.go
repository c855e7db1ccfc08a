package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/sm2"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// respondDomainError maps the core sentinel errors to HTTP statuses.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, sm2.ErrInvalidQuality):
		respondError(c, http.StatusBadRequest, "validation", err)
	case errors.Is(err, domain.ErrImportParse):
		respondError(c, http.StatusBadRequest, "import", err)
	case errors.Is(err, domain.ErrStorageWrite):
		respondError(c, http.StatusInternalServerError, "storage", err)
	default:
		respondError(c, http.StatusInternalServerError, "internal", err)
	}
}
