package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"finance-api/internal/model"
)

const defaultRequestTimeout = 30 * time.Second

// Timeout bounds every API request. The 503 body uses the same envelope as
// handler errors.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	body, _ := json.Marshal(model.APIResponse{
		Success: false,
		Message: "Request timed out",
		Code:    "REQUEST_TIMEOUT",
	})

	return func(next http.Handler) http.Handler {
		limited := http.TimeoutHandler(next, timeout, string(body))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Handlers overwrite this on success; the timeout path keeps it.
			w.Header().Set("Content-Type", "application/json")
			limited.ServeHTTP(w, r)
		})
	}
}
