package httputil

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/wangxiaochuang/05-chat/pkg/logger"
)

// Логирует метод, путь, статус, объём ответа, длительность, X-Request-ID
// и trace-контекст, если запрос пришёл с ним.
// Тела не пишем: через эти ручки ходят файлы и пароли.
func MiddlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &logResponseWriter{ResponseWriter: w}
		next.ServeHTTP(lrw, r)

		dur := time.Since(start)
		reqID, _ := RequestIDFromContext(r.Context())

		args := []any{
			"req_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", lrw.status,
			"bytes", lrw.bytes,
			"duration", dur.String(),
		}
		for _, a := range logger.AttrsFromCtx(r.Context()) {
			args = append(args, a)
		}

		slog.Info("http request", args...)
	})
}

type logResponseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *logResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *logResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n

	return n, err
}
