package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/orgstack/orghub/internal/api/response"
)

// Recovery converts handler panics into a 500 error envelope. Whatever
// partition or index state a panicking request left behind is logged, never
// surfaced to the client.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			slog.Error("panic recovered",
				"panic", v,
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", clientIP(r),
				"stack", string(debug.Stack()),
			)
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "An unexpected error occurred", nil)
		}()
		next.ServeHTTP(w, r)
	})
}
