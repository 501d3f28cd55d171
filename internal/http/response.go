package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aulasoft/institution/internal/service"
	"github.com/aulasoft/institution/internal/store"
	"github.com/aulasoft/institution/pkg/httpx"
	"github.com/aulasoft/institution/pkg/slogx"
)

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func respondOK(w http.ResponseWriter, code int, message string, data any) {
	httpx.WriteJSON(w, code, apiResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondError(w http.ResponseWriter, code int, message string, errs ...string) {
	httpx.WriteJSON(w, code, apiResponse{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

// respondServiceError maps service/store sentinels onto status codes. Any
// unmapped error is a 500 with a generic body; the detail goes to the log.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "validation failed", err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, store.ErrAlreadyExists):
		respondError(w, http.StatusConflict, "resource already exists")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
