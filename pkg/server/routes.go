package server

import (
	"net/http"
)

// Handler returns the full HTTP handler stack. Methods not registered for a
// path are answered with 405 by the ServeMux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /healthcheck", s.handleHealthcheck)
	mux.HandleFunc("DELETE /clear", s.handleClear)
	mux.HandleFunc("GET /submit/{name}/{result}", s.handleSubmit)
	mux.HandleFunc("GET /report", s.handleReport)
	mux.HandleFunc("GET /report/{$}", s.handleReport)
	mux.HandleFunc("GET /metrics", s.handlePrometheus)

	var h http.Handler = noCacheMiddleware(mux)
	if s.limiter != nil {
		h = newRateLimitMiddleware(s.limiter)(h)
	}
	return requestLogMiddleware(s.logger, h)
}
