package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// LogRequest traces every incoming request and logs a debug line with the outcome.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fields := log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"ua":     r.Header.Get("User-Agent"),
			}
			log.WithFields(fields).Trace(" ====> request")

			begin := time.Now()
			resp := &responseWriter{w, http.StatusOK}
			next.ServeHTTP(resp, r)

			fields["status"] = resp.statusCode
			fields["took"] = time.Since(begin).String()
			log.WithFields(fields).Debug(" <==== response")
		})
	}
}
