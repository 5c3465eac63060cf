package routes

import (
	"net/http"
	"time"

	"github.com/Dosada05/tournament-structure/handlers"
	"github.com/Dosada05/tournament-structure/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	CORSAllowOrigins  []string
	PreviewRateLimit  int
	PreviewRateWindow time.Duration
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	auth *middleware.Authenticator,
	formatHandler *handlers.FormatHandler,
	structureHandler *handlers.StructureHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/api", func(r chi.Router) {
		r.Get("/formats/rules", formatHandler.ListRules)

		r.With(middleware.RateLimit(opts.PreviewRateLimit, opts.PreviewRateWindow)).
			Post("/structure/preview", structureHandler.Preview)

		r.Route("/tournaments/{tournamentID}/structure", func(r chi.Router) {
			r.Get("/", structureHandler.GetStructure)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Put("/", structureHandler.SaveStructure)
				r.Post("/publish", structureHandler.PublishStructure)
			})
		})
	})
}
