package providers

import "context"

// SourceImage is one uploaded flower photograph. ContentType is the
// declared type from the upload form; transport encoding re-derives the
// real MIME from the bytes.
type SourceImage struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ImageParams carries the generation knobs passed to an image model.
// Quality and Style are omitted entirely when empty so reduced-parameter
// fallback calls never assume the model supports them.
type ImageParams struct {
	Size    string
	Quality string
	Style   string
}

// Artifact references one generated image. Exactly one of URL or Data is
// populated by a backend: remote generators return a hosted URL, inline
// generators return raw bytes that the caller persists. Model records which
// model actually produced the artifact.
type Artifact struct {
	URL   string
	Data  []byte
	MIME  string
	Model string
}

// Describer turns a set of images plus an instruction into text via a
// vision-capable model.
type Describer interface {
	DescribeImages(ctx context.Context, images []SourceImage, instruction string, maxTokens int) (string, error)
}

// TextGenerator produces a short completion from a text model.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ImageGenerator synthesizes an image from a text prompt alone.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, model string, params ImageParams) (*Artifact, error)
}

// ImageComposer synthesizes images conditioned on the provided source
// images, for backends whose generative model accepts inline image parts.
type ImageComposer interface {
	ComposeImage(ctx context.Context, prompt string, images []SourceImage) ([]Artifact, error)
}
