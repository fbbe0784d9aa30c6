package api

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/go-chi/chi/v5/middleware"
)

const serverErrorMessage = "Server error"

// writeError maps a service error to a status and a {message} body.
// Unauthorized errors use unauthorizedStatus because some routes report a
// failed password check as a bad request rather than a missing session.
// Unclassified errors are logged and hidden behind a generic message.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error, unauthorizedStatus int) {
	var status int
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorAlreadyExists):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		status = unauthorizedStatus
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
	default:
		s.logger.Error(r.Context(), "request failed",
			"req_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		writeMessage(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}
	writeMessage(w, status, common.Message(err, http.StatusText(status)))
}

// result labels an error for metrics.
func result(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, common.ErrorValidation):
		return "invalid"
	case errors.Is(err, common.ErrorAlreadyExists):
		return "conflict"
	case errors.Is(err, common.ErrorUnauthorized):
		return "denied"
	case errors.Is(err, common.ErrorNotFound):
		return "not_found"
	default:
		return "error"
	}
}
