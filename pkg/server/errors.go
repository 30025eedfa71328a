package server

import (
	"fmt"
	"net/http"
)

// requestError is a client-side failure that maps to a 4xx response.
type requestError struct {
	status        int
	detail        string
	availableBots []string
}

func (e *requestError) Error() string {
	return e.detail
}

func badRequest(format string, args ...any) *requestError {
	return &requestError{status: http.StatusBadRequest, detail: fmt.Sprintf(format, args...)}
}

func unknownBot(id string, available []string) *requestError {
	return &requestError{
		status:        http.StatusBadRequest,
		detail:        fmt.Sprintf("Bot '%s' not found. Available bots: %v", id, available),
		availableBots: available,
	}
}

func writeError(w http.ResponseWriter, err *requestError) {
	writeJSON(w, err.status, ErrorResponse{Detail: err.detail, AvailableBots: err.availableBots})
}
