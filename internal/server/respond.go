package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pgscope/pgscope/internal/errs"
)

// response is the JSON envelope every endpoint answers with. Success
// responses carry data, error responses carry the error text and a stable
// machine-readable code.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondData(w http.ResponseWriter, status int, msg string, data any) {
	writeJSON(w, status, response{Success: true, Message: msg, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, response{Success: true, Message: msg})
}

// respondError maps the error's kind to an HTTP status. Error text has
// already been scrubbed of credentials by the driver layer.
func respondError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), response{
		Success: false,
		Error:   err.Error(),
		Code:    errs.KindOf(err).String(),
	})
}

func statusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.ErrKindValidation, errs.ErrKindInvalidIdentifier, errs.ErrKindNotConnected:
		return http.StatusBadRequest
	case errs.ErrKindNotFound:
		return http.StatusNotFound
	case errs.ErrKindConstraintExists, errs.ErrKindAlreadyExists:
		return http.StatusConflict
	case errs.ErrKindConnectionFailed:
		return http.StatusBadGateway
	case errs.ErrKindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody unmarshals the request body into v, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return errs.New(errs.ErrKindValidation, "request body is truncated")
		}
		return errs.Wrap(errs.ErrKindValidation, "invalid request body", err)
	}
	return nil
}
