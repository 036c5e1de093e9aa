package middleware

import (
	"net/http"
	"time"

	"github.com/apex/log"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

// RequestLogger logs one line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		entry := log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"bytes":    rec.bytes,
			"ip":       ClientIP(r),
			"duration": time.Since(start).String(),
		})
		switch {
		case rec.status >= 500:
			entry.Error("request")
		case rec.status >= 400:
			entry.Warn("request")
		default:
			entry.Debug("request")
		}
	})
}

// Audit records a state-changing action by an authenticated user.
func Audit(r *http.Request, action string, fields log.Fields) {
	entry := log.WithField("action", action)
	if user, ok := GetUserFromContext(r.Context()); ok {
		entry = entry.WithFields(log.Fields{"user_id": user.UserID, "username": user.Username})
	}
	entry.WithFields(fields).Info("📝 AUDIT")
}
