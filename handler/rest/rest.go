package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/gorilla/schema"
	"github.com/jinzhu/gorm"

	"lever/core"
	"lever/handler/render"
	"lever/handler/views"
)

var queryDecoder = schema.NewDecoder()

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

// Handle handle rest api request
func Handle(
	poolStore core.IPoolStore,
	positionStore core.IPositionStore,
	positionService core.IPositionService,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/pools", allPoolsHandler(poolStore))
	router.Get("/pools/{asset}", poolHandler(poolStore))
	router.Get("/positions", positionsHandler(positionStore))
	router.Get("/positions/{owner}/{id}", positionHandler(positionStore, positionService))

	return router
}

func allPoolsHandler(poolStore core.IPoolStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pools, err := poolStore.All(r.Context())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		items := make([]views.Pool, 0, len(pools))
		for _, p := range pools {
			items = append(items, views.NewPool(p))
		}

		render.JSON(w, items)
	}
}

func poolHandler(poolStore core.IPoolStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pool, err := poolStore.Find(r.Context(), chi.URLParam(r, "asset"))
		if err != nil {
			if gorm.IsRecordNotFoundError(err) {
				render.NotFoundRequest(w, core.ErrPoolNotFound)
				return
			}
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, views.NewPool(pool))
	}
}

type positionsQuery struct {
	Owner string `schema:"owner"`
}

func positionsHandler(positionStore core.IPositionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var query positionsQuery
		if err := queryDecoder.Decode(&query, r.URL.Query()); err != nil {
			render.BadRequest(w, err)
			return
		}

		if query.Owner == "" {
			render.BadRequest(w, errors.New("owner required"))
			return
		}

		positions, err := positionStore.FindByOwner(r.Context(), query.Owner)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		items := make([]views.Position, 0, len(positions))
		for _, p := range positions {
			items = append(items, views.NewPosition(p))
		}

		render.JSON(w, items)
	}
}

func positionHandler(positionStore core.IPositionStore, positionService core.IPositionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := chi.URLParam(r, "owner")
		positionID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		position, err := positionStore.Find(r.Context(), owner, positionID)
		if err != nil {
			if gorm.IsRecordNotFoundError(err) {
				render.NotFoundRequest(w, core.ErrPositionNotFound)
				return
			}
			render.BadRequest(w, err)
			return
		}

		view := views.NewPosition(position)
		if ltv, err := positionService.LTV(r.Context(), owner, positionID); err == nil {
			view.LTV = ltv
		}

		render.JSON(w, view)
	}
}
