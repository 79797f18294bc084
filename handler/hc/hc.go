package hc

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"lever/handler/render"
)

// Handle reports liveness, the build version and the process uptime
func Handle(version string) http.Handler {
	started := time.Now()

	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, render.H{
			"version": version,
			"uptime":  time.Since(started).Truncate(time.Millisecond).String(),
			"now":     time.Now().Unix(),
		})
	})

	return r
}
