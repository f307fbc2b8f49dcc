package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"bouquet/internal/domain"
	"bouquet/internal/infra"
	"bouquet/internal/merge"
	"bouquet/internal/providers"
)

// BouquetMerger runs the describe-then-generate pipeline and returns the
// classic {title, imageURL} result.
type BouquetMerger interface {
	Merge(ctx context.Context, images []providers.SourceImage) (*merge.Result, error)
}

// FlowerComposer runs the image-conditioned variant and returns hosted
// artifact URLs.
type FlowerComposer interface {
	Compose(ctx context.Context, images []providers.SourceImage) ([]string, error)
}

// App is the handler container. Composer may be nil when no inline-capable
// backend is configured; the composition route then answers 503.
type App struct {
	Config   *infra.Config
	Logger   zerolog.Logger
	Merger   BouquetMerger
	Composer FlowerComposer
}

func NewApp(cfg *infra.Config, logger zerolog.Logger, merger BouquetMerger, composer FlowerComposer) *App {
	return &App{Config: cfg, Logger: logger, Merger: merger, Composer: composer}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{"error": errCode, "detail": message})
}

// fail maps pipeline errors onto the transport: batch faults are the
// caller's, upstream faults are the dependency's, anything else is ours.
func (a *App) fail(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		a.error(w, http.StatusBadRequest, "bad_request", ve.Error())
		return
	}
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		a.Logger.Error().Err(err).Str("stage", ue.Stage).Msg("upstream failure")
		a.error(w, http.StatusBadGateway, "upstream_error", "failed to create bouquet: "+ue.Stage)
		return
	}
	a.Logger.Error().Err(err).Msg("internal error")
	a.error(w, http.StatusInternalServerError, "internal", "internal server error")
}
