package gemini

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"bouquet/internal/domain"
	"bouquet/internal/imaging"
	"bouquet/internal/providers"
)

// Options configures the Gemini backend.
type Options struct {
	APIKey     string
	ImageModel string
	TextModel  string
}

// Client implements the vision and image-composition capabilities over the
// Gemini API. Its generative image model accepts inline image parts, so
// source photographs condition the generation directly.
type Client struct {
	client     *genai.Client
	imageModel string
	textModel  string
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, domain.Configf("GEMINI_API_KEY", "api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(opts.APIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	imageModel := opts.ImageModel
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image-preview"
	}
	textModel := opts.TextModel
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}

	return &Client{client: client, imageModel: imageModel, textModel: textModel}, nil
}

// ComposeImage sends the instruction plus every source image as inline
// parts and collects the inline image payloads of the answer.
func (c *Client) ComposeImage(ctx context.Context, prompt string, images []providers.SourceImage) ([]providers.Artifact, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, img := range images {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: imaging.DetectMIME(img.Data),
			Data:     img.Data,
		}})
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	res, err := c.client.Models.GenerateContent(ctx, c.imageModel, contents, nil)
	if err != nil {
		return nil, err
	}

	var artifacts []providers.Artifact
	for _, candidate := range res.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			artifacts = append(artifacts, providers.Artifact{
				Data:  part.InlineData.Data,
				MIME:  mime,
				Model: c.imageModel,
			})
		}
	}
	return artifacts, nil
}

// DescribeImages asks the text-capable model about the images and returns
// the concatenated text parts of the first candidate.
func (c *Client) DescribeImages(ctx context.Context, images []providers.SourceImage, instruction string, maxTokens int) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(instruction)}
	for _, img := range images {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: imaging.DetectMIME(img.Data),
			Data:     img.Data,
		}})
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	res, err := c.client.Models.GenerateContent(ctx, c.textModel, contents, &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	})
	if err != nil {
		return "", err
	}
	return firstText(res)
}

// GenerateText requests a plain completion.
func (c *Client) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser)}
	res, err := c.client.Models.GenerateContent(ctx, c.textModel, contents, &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	})
	if err != nil {
		return "", err
	}
	return firstText(res)
}

func firstText(res *genai.GenerateContentResponse) (string, error) {
	var b strings.Builder
	for _, candidate := range res.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				b.WriteString(part.Text)
			}
		}
		break
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.New("no text content returned")
	}
	return text, nil
}

var (
	_ providers.ImageComposer = (*Client)(nil)
	_ providers.Describer     = (*Client)(nil)
	_ providers.TextGenerator = (*Client)(nil)
)
