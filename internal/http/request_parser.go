package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

const maxBodyBytes = 1 << 20

// requestError is a client mistake detected before reaching a service.
type requestError struct {
	status int
	detail string
}

func (e *requestError) Error() string { return e.detail }

func badRequest(detail string) error {
	return &requestError{status: http.StatusBadRequest, detail: detail}
}

// decodeJSON reads a single JSON object from the body into dst. Unknown
// fields and trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return classifyDecodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return badRequest("request body must contain a single JSON object")
	}
	return nil
}

func classifyDecodeError(err error) error {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		tooLargeErr *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return badRequest("request body must not be empty")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return badRequest("request body contains malformed JSON")
	case errors.As(err, &tooLargeErr):
		return &requestError{
			status: http.StatusRequestEntityTooLarge,
			detail: fmt.Sprintf("request body must not exceed %d bytes", maxBodyBytes),
		}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		return badRequest("request body contains unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field "))
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			return core.NewValidationError("", "request body must be a JSON object")
		}
		return core.NewValidationError(field, "has the wrong type")
	case core.IsValidationError(err):
		return err
	default:
		// value-level parse failures from field decoders (uuid, decimal, time)
		return core.NewValidationError("", "request body contains an invalid value")
	}
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, core.NewValidationError("id", "must be a valid UUID")
	}
	return id, nil
}
