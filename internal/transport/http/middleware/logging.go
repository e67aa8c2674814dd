package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

type RequestRecorder interface {
	Record(status int, duration time.Duration)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logger writes one access log line per request and feeds the request metrics.
func Logger(log *zap.Logger, metrics RequestRecorder) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			duration := time.Since(start)

			if metrics != nil {
				metrics.Record(recorder.status, duration)
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", recorder.status),
				zap.Int64("durationMs", duration.Milliseconds()),
				zap.String("requestId", GetRequestID(r.Context())),
			}
			if actor, ok := GetActor(r.Context()); ok {
				fields = append(fields, zap.Int64("actorId", actor.UserID))
			}
			if recorder.status >= http.StatusInternalServerError {
				log.Error("http request", fields...)
				return
			}
			log.Info("http request", fields...)
		})
	}
}
