package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okrause/elaborate/internal/config"
	"github.com/okrause/elaborate/internal/handler/ask"
	"github.com/okrause/elaborate/internal/handler/attach"
	middlewarePkg "github.com/okrause/elaborate/internal/middleware"
	"github.com/okrause/elaborate/internal/service/chat"
	"github.com/okrause/elaborate/pkg/utils"
)

// NewRouter wires HTTP routes to the services. The ask handler is mounted
// only when a generator is available; asker is the completion client handed
// to every attachment's engine.
func NewRouter(cfg *config.Config, generator ask.Generator, asker chat.Asker) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	attachHandler := attach.New(cfg, asker)

	r.Route("/api", func(api chi.Router) {
		if generator != nil {
			ask.New(generator, cfg.Prompts).RegisterRoutes(api)
		} else {
			api.Post("/ask", func(w http.ResponseWriter, r *http.Request) {
				utils.RespondError(w, http.StatusServiceUnavailable, "completion model unavailable")
			})
		}

		attachHandler.RegisterRoutes(api)
	})

	return r
}
