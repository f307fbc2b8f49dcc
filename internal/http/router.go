package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"bouquet/internal/http/handlers"
	"bouquet/internal/middleware"
)

// NewRouter wires the merge endpoints plus a static mount for the
// temporary artifacts the composition profile writes to disk.
func NewRouter(app *handlers.App, logger zerolog.Logger, tempDir string) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer, middleware.Logger(logger))

	r.Get("/", app.Root)
	r.Get("/health", app.Health)

	r.Route("/flower-merge", func(r chi.Router) {
		r.Get("/health", app.ServiceHealth)
		r.Post("/upload", app.MergeUpload)
		r.Post("/generate", app.ComposeGenerate)
	})

	fs := stdhttp.FileServer(stdhttp.Dir(tempDir))
	r.Handle("/temp-generated-images/*", stdhttp.StripPrefix("/temp-generated-images/", fs))

	return r
}
