package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GustavoOtto7/ArquiteturaDeSistemas/pkg/apperror"
)

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders the taxonomy as {code, message}; unknown errors become a
// generic 500 so internals never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	body := errorBody{
		Code:    string(apperror.KindOf(err)),
		Message: apperror.MessageOf(err),
	}
	var e *apperror.Error
	if errors.As(err, &e) {
		body.Meta = e.Meta
	}
	WriteJSON(w, apperror.HTTPStatus(err), body)
}

// DecodeJSON rejects malformed bodies uniformly, whatever the endpoint.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperror.Wrap(err, apperror.KindValidation, "invalid JSON body")
	}
	return nil
}
