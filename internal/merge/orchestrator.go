package merge

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"bouquet/internal/providers"
)

// Result is the sole externally observable output of a merge.
type Result struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageURL"`
}

// Options configures one orchestrator instance.
type Options struct {
	Limits Limits
	// ComposeStyle enables the second vision call that suggests an
	// arrangement before the prompt is composed.
	ComposeStyle bool
	Debug        bool
}

// Orchestrator runs the merge pipeline: validate, describe, optionally
// analyze composition, compose the prompt, then synthesize the image and
// the title. The first failing step aborts the rest; no partial Result is
// ever returned. Retry behavior lives entirely inside the Synthesizer.
type Orchestrator struct {
	describer   providers.Describer
	text        providers.TextGenerator
	synthesizer *Synthesizer
	opts        Options
	logger      zerolog.Logger
}

func NewOrchestrator(describer providers.Describer, text providers.TextGenerator, synthesizer *Synthesizer, opts Options, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		describer:   describer,
		text:        text,
		synthesizer: synthesizer,
		opts:        opts,
		logger:      logger,
	}
}

// Merge executes the pipeline for one batch.
func (o *Orchestrator) Merge(ctx context.Context, images []providers.SourceImage) (*Result, error) {
	if err := ValidateBatch(images, o.opts.Limits); err != nil {
		return nil, err
	}

	description, err := DescribeFlowers(ctx, o.describer, images)
	if err != nil {
		return nil, err
	}
	o.debug().Str("description", description).Msg("flowers identified")

	descriptions := []string{description}
	if o.opts.ComposeStyle {
		composition, err := DescribeComposition(ctx, o.describer, images)
		if err != nil {
			return nil, err
		}
		o.debug().Str("composition", composition).Msg("composition suggested")
		descriptions = append(descriptions, composition)
	}

	prompt := ComposePrompt(descriptions...)
	o.debug().Int("prompt_chars", len([]rune(prompt))).Msg("generation prompt composed")

	// Image synthesis and the title call both depend only on the
	// description, so they run concurrently.
	var (
		artifact *providers.Artifact
		title    string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		artifact, err = o.synthesizer.Synthesize(gctx, prompt)
		return err
	})
	g.Go(func() error {
		var err error
		title, err = ComposeTitle(gctx, o.text, description)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	o.logger.Info().
		Str("model", artifact.Model).
		Str("title", title).
		Msg("bouquet generated")

	return &Result{Title: title, ImageURL: artifact.URL}, nil
}

func (o *Orchestrator) debug() *zerolog.Event {
	if !o.opts.Debug {
		return o.logger.Debug()
	}
	return o.logger.Info()
}
