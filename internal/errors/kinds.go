package errors

import (
	stderrors "errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/todorace-api/internal/constants"
)

// Kinds of failure. Service errors wrap exactly one of these with %w so the
// HTTP layer can pick a status without knowing every sentinel.
var (
	ErrValidation         = stderrors.New("validation failed")
	ErrNotFound           = stderrors.New("not found")
	ErrConflict           = stderrors.New("conflict")
	ErrInvalidState       = stderrors.New("invalid state")
	ErrForbidden          = stderrors.New("forbidden")
	ErrUnauthenticated    = stderrors.New("unauthenticated")
	ErrServiceUnavailable = stderrors.New("service unavailable")
)

// New returns an error of the given kind carrying message as its text.
func New(kind error, message string) error {
	return &kindError{kind: kind, message: message}
}

type kindError struct {
	kind    error
	message string
}

func (e *kindError) Error() string { return e.message }

func (e *kindError) Unwrap() error { return e.kind }

// StatusFor maps an error to its HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case stderrors.Is(err, ErrValidation):
		return http.StatusBadRequest, ErrCodeInvalidInput
	case stderrors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case stderrors.Is(err, ErrForbidden):
		return http.StatusForbidden, ErrCodeForbidden
	case stderrors.Is(err, ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case stderrors.Is(err, ErrConflict):
		return http.StatusConflict, ErrCodeConflict
	case stderrors.Is(err, ErrInvalidState):
		return http.StatusConflict, ErrCodeInvalidState
	case stderrors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, ErrCodeServiceUnavailable
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// Respond writes err as an APIError. Errors of an unknown kind are logged and
// reported as a generic internal error.
func Respond(c *gin.Context, err error) {
	status, code := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("request %s %s %s failed: %v", c.GetString(constants.ContextKeyRequestID), c.Request.Method, c.Request.URL.Path, err)
		InternalError(c, "")
		return
	}
	RespondWithError(c, status, NewAPIError(code, err.Error()))
}
