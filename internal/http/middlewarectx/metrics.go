package middlewarectx

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
)

// StatusRecorder учитывает статусы HTTP-ответов.
type StatusRecorder interface {
	RecordHTTPStatus(statusCode int)
}

// Metrics возвращает middleware, который передаёт статус каждого ответа в rec.
func Metrics(rec StatusRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			rec.RecordHTTPStatus(status)
		})
	}
}
