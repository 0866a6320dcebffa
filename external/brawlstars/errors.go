package brawlstars

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/brawl-tracker/internal/usecase"
)

type ErrorCode string

const (
	CodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	CodePlayerNotFound ErrorCode = "PLAYER_NOT_FOUND"
	CodeMaintenance    ErrorCode = "MAINTENANCE"
	CodeHTTPError      ErrorCode = "HTTP_ERROR"
)

// APIError is a failed call to the game API. It unwraps to the matching use case sentinel
// so callers can branch with errors.Is.
type APIError struct {
	Status  int
	Code    ErrorCode
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("brawl api %s (%d): %s", e.Code, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Code {
	case CodeUnauthorized:
		return usecase.ErrUnauthorized
	case CodePlayerNotFound:
		return usecase.ErrNotFound
	case CodeMaintenance:
		return usecase.ErrMaintenance
	default:
		return usecase.ErrUpstream
	}
}

func codeForStatus(status int) ErrorCode {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return CodeUnauthorized
	case http.StatusNotFound:
		return CodePlayerNotFound
	case http.StatusServiceUnavailable:
		return CodeMaintenance
	default:
		return CodeHTTPError
	}
}
