package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"groupgate/entity"
	"groupgate/lib/api/response"
)

// Core provides the read-only stats exposed on the health endpoint.
type Core interface {
	Stats() entity.Stats
}

func Health(_ *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.Ok(core.Stats()))
	}
}
