package merge

import (
	"context"

	"github.com/rs/zerolog"

	"bouquet/internal/domain"
	"bouquet/internal/providers"
)

const squareSize = "1024x1024"

// ArtifactStore persists inline artifact bytes and returns a publicly
// resolvable URL. Backends that already return hosted URLs never touch it.
type ArtifactStore interface {
	SaveTemp(data []byte, mime string) (string, error)
}

// Synthesizer invokes the primary image model and degrades in place to the
// fallback model on any failure. One retry total, no backoff, no second
// tier: failure classes (timeout, policy rejection, quota) are treated
// uniformly.
type Synthesizer struct {
	gen      providers.ImageGenerator
	primary  string
	fallback string
	store    ArtifactStore
	logger   zerolog.Logger
}

func NewSynthesizer(gen providers.ImageGenerator, primary, fallback string, store ArtifactStore, logger zerolog.Logger) *Synthesizer {
	return &Synthesizer{gen: gen, primary: primary, fallback: fallback, store: store, logger: logger}
}

// Synthesize generates the bouquet image. The primary call uses the full
// parameter set; the fallback call assumes no quality or style support. If
// both fail, the fallback's failure detail propagates.
func (s *Synthesizer) Synthesize(ctx context.Context, prompt string) (*providers.Artifact, error) {
	artifact, err := s.gen.GenerateImage(ctx, prompt, s.primary, providers.ImageParams{
		Size:    squareSize,
		Quality: "hd",
		Style:   "natural",
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("model", s.primary).
			Str("fallback", s.fallback).
			Msg("primary image generation failed, trying fallback")
		artifact, err = s.gen.GenerateImage(ctx, prompt, s.fallback, providers.ImageParams{
			Size: squareSize,
		})
		if err != nil {
			return nil, domain.WrapUpstream("generate image", err)
		}
	}
	return s.host(artifact)
}

func (s *Synthesizer) host(artifact *providers.Artifact) (*providers.Artifact, error) {
	if artifact == nil {
		return nil, &domain.UpstreamError{Stage: "generate image", Err: domain.ErrEmptyContent}
	}
	if len(artifact.Data) > 0 && artifact.URL == "" {
		if s.store == nil {
			return nil, domain.Upstreamf("generate image", "inline artifact returned but no store configured")
		}
		url, err := s.store.SaveTemp(artifact.Data, artifact.MIME)
		if err != nil {
			return nil, domain.WrapUpstream("generate image", err)
		}
		artifact.URL = url
	}
	if artifact.URL == "" {
		return nil, &domain.UpstreamError{Stage: "generate image", Err: domain.ErrEmptyContent}
	}
	return artifact, nil
}
