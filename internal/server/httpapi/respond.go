package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type messageResponse struct {
	Message string `json:"message"`
}

type validationResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, messageResponse{Message: msg})
}

// writeError maps service errors onto status codes. Details of unexpected
// failures are logged, never sent to the client.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeJSON(w, r, http.StatusBadRequest, validationResponse{
			Message: common.ErrorValidation.Error(),
			Errors:  verr.Fields,
		})
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrorConflict):
		writeMessage(w, r, http.StatusConflict, err.Error())
	default:
		s.logger.Error(r.Context(), err.Error(), "request_id", middleware.GetReqID(r.Context()))
		writeMessage(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

// pathID reads a positive integer URL parameter. On failure it writes a 400
// naming the entity and returns false.
func pathID(w http.ResponseWriter, r *http.Request, param, entity string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		writeMessage(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid %s id", entity))
		return 0, false
	}
	return id, true
}

func (s *HTTPServer) notFound(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, r, http.StatusNotFound, "Requested resource not found")
}

func (s *HTTPServer) notAllowed(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}

func (s *HTTPServer) ping(w http.ResponseWriter, r *http.Request) {
	if err := s.pinger.PingContext(r.Context()); err != nil {
		s.logger.Warn(r.Context(), "database ping failed", "error", err)
		writeMessage(w, r, http.StatusServiceUnavailable, "Database unavailable")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "OK"})
}
