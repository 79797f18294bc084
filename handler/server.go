package handler

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"

	"lever/core"
	"lever/handler/hc"
	"lever/handler/render"
	"lever/handler/rest"
)

// Server server
type Server struct {
	cfg             *core.Config
	poolStore       core.IPoolStore
	positionStore   core.IPositionStore
	positionService core.IPositionService
	version         string
}

// New new server function
func New(
	cfg *core.Config,
	poolStr core.IPoolStore,
	positionStr core.IPositionStore,
	positionSrv core.IPositionService,
	version string,
) Server {
	return Server{
		cfg:             cfg,
		poolStore:       poolStr,
		positionStore:   positionStr,
		positionService: positionSrv,
		version:         version,
	}
}

// Handler the read-only api surface
func (s Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(cors.AllowAll().Handler)
	r.Use(middleware.Logger)
	r.Use(render.WrapResponse(true))

	r.Mount("/hc", hc.Handle(s.version))
	r.Mount("/api", rest.Handle(s.poolStore, s.positionStore, s.positionService))

	return r
}
