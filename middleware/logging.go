package middleware

import (
	"net/http"
	"time"

	"taskoo-project/backend/logging"

	"github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request once it has been served.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := newStatusRecorder(w)
		start := time.Now()

		next.ServeHTTP(rec, r)

		entry := logging.Logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"bytes":    rec.bytes,
			"duration": time.Since(start).String(),
		})

		switch {
		case rec.status >= http.StatusInternalServerError:
			entry.Errorf("Event ID: HTTP_REQUEST_FAILED, Description: %s %s", r.Method, r.URL.Path)
		case rec.status >= http.StatusBadRequest:
			entry.Warnf("Event ID: HTTP_REQUEST_REJECTED, Description: %s %s", r.Method, r.URL.Path)
		default:
			entry.Infof("Event ID: HTTP_REQUEST, Description: %s %s", r.Method, r.URL.Path)
		}
	})
}
