package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type cursor interface {
	NextBlock(ctx context.Context) (uint64, error)
}

type health struct {
	Status    string `json:"status"`
	NextBlock uint64 `json:"nextBlock"`
	Error     string `json:"error,omitempty"`
}

func newRouter(c cursor) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		resp := health{Status: "ok"}
		code := http.StatusOK

		next, err := c.NextBlock(req.Context())
		if err != nil {
			resp.Status = "unavailable"
			resp.Error = err.Error()
			code = http.StatusServiceUnavailable
		}

		resp.NextBlock = next

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	})

	return r
}
