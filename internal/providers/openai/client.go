package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"bouquet/internal/domain"
	"bouquet/internal/imaging"
	"bouquet/internal/providers"
)

// Options configures the OpenAI backend.
type Options struct {
	APIKey       string
	BaseURL      string
	Organization string
	VisionModel  string
	ChatModel    string
	HTTPClient   *http.Client
}

// Client implements the vision, text and image capabilities over the
// OpenAI API. One instance is safe for concurrent use.
type Client struct {
	client      *openai.Client
	visionModel string
	chatModel   string
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, domain.Configf("OPENAI_API_KEY", "api key is required")
	}
	cfg := openai.DefaultConfig(strings.TrimSpace(opts.APIKey))
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	if opts.Organization != "" {
		cfg.OrgID = opts.Organization
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}

	visionModel := opts.VisionModel
	if visionModel == "" {
		visionModel = "gpt-4o"
	}
	chatModel := opts.ChatModel
	if chatModel == "" {
		chatModel = "gpt-4o-mini"
	}

	return &Client{
		client:      openai.NewClientWithConfig(cfg),
		visionModel: visionModel,
		chatModel:   chatModel,
	}, nil
}

// DescribeImages submits one multimodal chat request with every image
// attached as a base64 data URL. The MIME type comes from the bytes, not
// the declared upload content type.
func (c *Client) DescribeImages(ctx context.Context, images []providers.SourceImage, instruction string, maxTokens int) (string, error) {
	parts := []openai.ChatMessagePart{{
		Type: openai.ChatMessagePartTypeText,
		Text: instruction,
	}}
	for _, img := range images {
		mime := imaging.DetectMIME(img.Data)
		encoded := base64.StdEncoding.EncodeToString(img.Data)
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL: fmt.Sprintf("data:%s;base64,%s", mime, encoded),
			},
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.visionModel,
		Messages: []openai.ChatCompletionMessage{{
			Role:         openai.ChatMessageRoleUser,
			MultiContent: parts,
		}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("vision request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateText requests a plain completion from the chat model.
func (c *Client) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage calls the image endpoint with the given model. Quality and
// style are only sent when the caller asks for them, so fallback models
// never receive parameters they may not support.
func (c *Client) GenerateImage(ctx context.Context, prompt, model string, params providers.ImageParams) (*providers.Artifact, error) {
	if prompt == "" {
		return nil, errors.New("prompt cannot be empty")
	}
	req := openai.ImageRequest{
		Prompt:         prompt,
		Model:          model,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	}
	if params.Size != "" {
		req.Size = params.Size
	}
	if params.Quality != "" {
		req.Quality = params.Quality
	}
	if params.Style != "" {
		req.Style = params.Style
	}

	resp, err := c.client.CreateImage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("image endpoint returned empty data")
	}
	if resp.Data[0].URL == "" {
		return nil, errors.New("image endpoint returned empty URL")
	}
	return &providers.Artifact{URL: resp.Data[0].URL, Model: model}, nil
}

var (
	_ providers.Describer      = (*Client)(nil)
	_ providers.TextGenerator  = (*Client)(nil)
	_ providers.ImageGenerator = (*Client)(nil)
)
