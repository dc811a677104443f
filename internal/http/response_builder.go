package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// statusFor maps an error kind to its status code and a client-safe detail.
func statusFor(err error) (int, string) {
	var (
		reqErr *requestError
		resErr *core.ResourceError
		valErr *core.ValidationError
	)
	switch {
	case errors.As(err, &reqErr):
		return reqErr.status, reqErr.detail
	case errors.As(err, &valErr):
		return http.StatusUnprocessableEntity, valErr.Error()
	case errors.Is(err, core.ErrNotFound):
		if errors.As(err, &resErr) {
			return http.StatusNotFound, resErr.Error()
		}
		return http.StatusNotFound, "not found"
	case errors.Is(err, core.ErrConflict):
		if errors.As(err, &resErr) {
			return http.StatusConflict, resErr.Error()
		}
		return http.StatusConflict, "conflict"
	case errors.Is(err, core.ErrDownstream):
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// errorTypeFor classifies err for the error_type log field.
func errorTypeFor(err error) string {
	var (
		reqErr *requestError
		valErr *core.ValidationError
	)
	switch {
	case errors.As(err, &reqErr), errors.As(err, &valErr):
		return log.ErrorTypeValidation
	case errors.Is(err, core.ErrNotFound):
		return log.ErrorTypeNotFound
	case errors.Is(err, core.ErrConflict):
		return log.ErrorTypeConflict
	case errors.Is(err, core.ErrDownstream):
		return log.ErrorTypeDownstream
	default:
		return log.ErrorTypeInternal
	}
}

// resourceFromPath returns the collection segment of an /api/ path.
func resourceFromPath(path string) string {
	rest, ok := strings.CutPrefix(path, "/api/")
	if !ok {
		return ""
	}
	resource, _, _ := strings.Cut(rest, "/")
	return resource
}

// writeError logs and renders err raised during op. Only unexpected
// failures are logged at error level; their text never reaches the client.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, detail := statusFor(err)
	kind := errorTypeFor(err)

	ctx := r.Context()
	logger := log.FromContext(ctx)
	fields := log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, "", "")
	if resource := resourceFromPath(r.URL.Path); resource != "" {
		fields.WithResource(resource, r.PathValue("id"))
	}

	switch kind {
	case log.ErrorTypeInternal:
		log.NewStructuredLogger(logger).LogError(ctx, "Request failed", err, kind, op, fields)
	case log.ErrorTypeDownstream:
		fields.WithError(err).WithErrorType(kind).WithOperation(op)
		logger.WarnContext(ctx, "Downstream dependency unavailable", fields.ToSlice()...)
	default:
		fields.WithError(err).WithErrorType(kind).WithOperation(op)
		fields[log.FieldStatusCode] = status
		logger.DebugContext(ctx, "Request rejected", fields.ToSlice()...)
	}

	writeDetail(w, status, detail)
}
