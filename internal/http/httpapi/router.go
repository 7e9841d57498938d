package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"anglegen/internal/http/handlers"
	"anglegen/internal/infra/geoip"
	"anglegen/internal/middleware"
)

func NewRouter(app *handlers.App, countries geoip.CountryResolver) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(app.Cfg.AllowedOrigins))

	var lookup middleware.CountryLookup
	if countries != nil {
		lookup = countries.CountryCode
	}
	r.Use(middleware.I18N(app.Cfg.DefaultLocale, lookup))

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/config", app.Config)

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", app.CreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Post("/source", app.ReplaceSource)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(30, time.Minute))
				r.Post("/generate", app.Generate)
				r.Post("/items/{angleID}/generate", app.RegenerateItem)
			})

			r.Get("/items", app.ListItems)
			r.Get("/items/{angleID}/download", app.DownloadItem)
			r.Get("/archive", app.DownloadArchive)
		})
	})

	return r
}
