package server

import (
	"net/http"
	"time"

	"github.com/Leopold1975/tutorials_control/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

func loggingMiddleware(logg logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				latency := time.Since(start).String()

				logg.Infof("METHOD %s PROTO %s URI %s STATUS %d Latency %s Client IP %s User Agent %s Request ID %s",
					r.Method,
					r.Proto,
					r.URL.RequestURI(),
					ww.Status(),
					latency,
					r.RemoteAddr,
					r.UserAgent(),
					middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
