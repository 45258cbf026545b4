package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"intent/internal/logging"
)

// decodeErrMessage translates a json decode failure into a client-facing
// message. The empty string means the failure is not the client's fault.
func decodeErrMessage(err error) string {
	var (
		syntaxErr    *json.SyntaxError
		unmarshalErr *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed json at position %d", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "malformed json"
	case errors.As(err, &unmarshalErr):
		return fmt.Sprintf("invalid value %s at position %d", unmarshalErr.Field, unmarshalErr.Offset)
	case strings.HasPrefix(err.Error(), "json: unknown field"):
		return "unknown field " + strings.TrimPrefix(err.Error(), "json: unknown field ")
	case errors.Is(err, io.EOF):
		return "body must not be empty"
	}
	return ""
}

// DecodeErr writes the response matching a request body decode failure.
func DecodeErr(ctx context.Context, w http.ResponseWriter, err error) {
	if err.Error() == "http: request body too large" {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		return
	}
	if msg := decodeErrMessage(err); msg != "" {
		RespBadRequest(ctx, w, `{"error": %q}`, msg)
		return
	}
	RespInternalError(ctx, w, `{"error": "failed to decode json %v"}`, err)
}

func RespBadRequest(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logging.FromContext(ctx).Debug(msg)
	http.Error(w, msg, http.StatusBadRequest)
}

func RespInternalError(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	logging.FromContext(ctx).Errorf(format, args...)
	http.Error(w, "Internal error", http.StatusInternalServerError)
}
