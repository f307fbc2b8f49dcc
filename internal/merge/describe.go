package merge

import (
	"context"
	"strings"

	"bouquet/internal/domain"
	"bouquet/internal/providers"
)

// DescribeFlowers derives the flower description for a batch in a single
// multimodal call. An empty answer is an upstream failure, not a default:
// every downstream prompt builds on this text.
func DescribeFlowers(ctx context.Context, d providers.Describer, images []providers.SourceImage) (string, error) {
	text, err := d.DescribeImages(ctx, images, describeInstruction, describeMaxTokens)
	if err != nil {
		return "", domain.WrapUpstream("describe flowers", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &domain.UpstreamError{Stage: "describe flowers", Err: domain.ErrEmptyContent}
	}
	return text, nil
}

// DescribeComposition derives an arrangement suggestion over a prefix of
// the batch. Only the first few images feed the call to bound request size.
func DescribeComposition(ctx context.Context, d providers.Describer, images []providers.SourceImage) (string, error) {
	if len(images) > compositionImageCap {
		images = images[:compositionImageCap]
	}
	text, err := d.DescribeImages(ctx, images, compositionInstruction, compositionMaxTokens)
	if err != nil {
		return "", domain.WrapUpstream("analyze composition", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &domain.UpstreamError{Stage: "analyze composition", Err: domain.ErrEmptyContent}
	}
	return text, nil
}
