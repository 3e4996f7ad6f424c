package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"finance-api/internal/model"
	"finance-api/internal/service"
	"finance-api/pkg/apierror"
)

const msgInternal = "Something went wrong, please try again"

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func ok(message string) model.APIResponse {
	return model.APIResponse{Success: true, Message: message}
}

// writeError is the only place an error kind becomes an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	body := model.APIResponse{
		Success: false,
		Message: msgInternal,
		Code:    string(apierror.KindUnknown),
	}
	status := http.StatusInternalServerError

	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		status = statusFor(apiErr)
		body.Message = apiErr.Message
		body.Code = apiErr.Code
		if status >= http.StatusInternalServerError {
			slog.Error("request failed", "code", apiErr.Code, "error", err)
		}
	} else {
		slog.Error("unhandled error in writeError", "error", err)
	}

	writeJSON(w, status, body)
}

func statusFor(err *apierror.Error) int {
	switch err.Code {
	case service.CodeInvalidToken, service.CodeTokenUserMismatch:
		return http.StatusBadRequest
	}

	switch err.Kind {
	case apierror.KindValidation, apierror.KindConflict:
		return http.StatusBadRequest
	case apierror.KindAuth:
		return http.StatusUnauthorized
	case apierror.KindForbidden:
		return http.StatusForbidden
	case apierror.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads the request body into v. An empty body leaves v at its
// zero value so the service reports the missing fields.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return apierror.Wrap(apierror.KindValidation, "INVALID_JSON", "Invalid JSON body", err)
	}
	return nil
}
