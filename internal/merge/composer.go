package merge

import (
	"context"

	"github.com/rs/zerolog"

	"bouquet/internal/domain"
	"bouquet/internal/providers"
)

const composeInstruction = "Generate a beautiful flower bouquet by merging these images into an artistic arrangement."

// NoImageSentinel is the degraded outcome when the model answers without
// any image payload. It is part of the composition contract, not an error.
const NoImageSentinel = "No image generated"

// Composer drives the image-conditioned variant: the source photographs go
// straight to a generative model that accepts inline image parts, and every
// returned artifact is hosted under the temp mount.
type Composer struct {
	backend   providers.ImageComposer
	store     ArtifactStore
	maxImages int
	logger    zerolog.Logger
}

func NewComposer(backend providers.ImageComposer, store ArtifactStore, maxImages int, logger zerolog.Logger) *Composer {
	return &Composer{backend: backend, store: store, maxImages: maxImages, logger: logger}
}

// Compose validates the batch, invokes the backend once and returns the
// hosted URLs of every generated image.
func (c *Composer) Compose(ctx context.Context, images []providers.SourceImage) ([]string, error) {
	if err := ValidateBatch(images, Limits{MinCount: 1, MaxCount: c.maxImages}); err != nil {
		return nil, err
	}

	artifacts, err := c.backend.ComposeImage(ctx, composeInstruction, images)
	if err != nil {
		return nil, domain.WrapUpstream("compose bouquet", err)
	}

	var urls []string
	for _, artifact := range artifacts {
		switch {
		case artifact.URL != "":
			urls = append(urls, artifact.URL)
		case len(artifact.Data) > 0:
			url, err := c.store.SaveTemp(artifact.Data, artifact.MIME)
			if err != nil {
				return nil, domain.WrapUpstream("compose bouquet", err)
			}
			urls = append(urls, url)
		}
	}
	if len(urls) == 0 {
		c.logger.Warn().Int("images", len(images)).Msg("composition returned no image payload")
		return []string{NoImageSentinel}, nil
	}
	return urls, nil
}
