// Package middleware holds HTTP middleware for the web boundary.
package middleware

import (
	"net/http"
	"time"

	"fjacquet/expense-insights/internal/logging"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Logger logs every request with its method, path, client address, status and duration.
func Logger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, req.ProtoMajor)

			next.ServeHTTP(ww, req)

			logger.Info("Request handled",
				logging.F(logging.FieldMethod, req.Method),
				logging.F(logging.FieldPath, req.URL.Path),
				logging.F(logging.FieldRemoteAddr, req.RemoteAddr),
				logging.F(logging.FieldStatus, ww.Status()),
				logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
		})
	}
}
