// Package handlers implements the HTTP handlers for the ProtoScribe API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/turtacn/protoscribe/pkg/errors"
)

// parsePagination extracts page and page_size from query parameters.
func parsePagination(r *http.Request) (int, int) {
	page := 1
	pageSize := 20

	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 && ps <= 100 {
			pageSize = ps
		}
	}
	return page, pageSize
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeAppError maps an application error to its HTTP status and writes the
// structured error body. Server-side errors are masked.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	resp := ErrorResponse{
		Code:    string(code),
		Message: err.Error(),
	}
	if status >= http.StatusInternalServerError {
		resp.Message = errors.DefaultMessageForCode(code)
	}
	if appErr, ok := err.(*errors.AppError); ok && appErr.Detail != "" && status < http.StatusInternalServerError {
		resp.Detail = appErr.Detail
	}
	writeJSON(w, status, resp)
}
