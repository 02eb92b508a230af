package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

// RequestIDHeader заголовок с идентификатором запроса
const RequestIDHeader = "X-Request-ID"

// Logging логирует каждый запрос, проставляет X-Request-ID и перехватывает панику обработчика
func Logging(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			rec := newStatusRecorder(w)
			defer func() {
				if p := recover(); p != nil {
					log.Error("%s %s - panic: %v, request_id=%s", r.Method, r.URL.Path, p, requestID)
					handlers.RespondInternalError(rec)
				}
				log.Info("%s %s - %d in %s, request_id=%s",
					r.Method, r.URL.Path, rec.status, time.Since(start), requestID)
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
