package generation

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client talks to the generative endpoint: the official SDK for image
// generation, raw HTTP for the video long-running-operation surface the
// SDK does not cover.
type Client struct {
	genai      *genai.Client
	httpClient *http.Client
	apiKey     string
	endpoint   string
	imageModel string
	videoModel string
}

// Config for the generation client.
type Config struct {
	APIKey     string
	Endpoint   string
	ImageModel string
	VideoModel string
}

// NewClient creates a generation client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	gc, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{
		genai:      gc,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiKey:     cfg.APIKey,
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		imageModel: cfg.ImageModel,
		videoModel: cfg.VideoModel,
	}, nil
}

// Close releases the underlying SDK client.
func (c *Client) Close() error {
	if c.genai != nil {
		return c.genai.Close()
	}
	return nil
}

// ImageResult is the outcome of an image generation call. Exactly one of
// Data or BlockReason is meaningful: an empty-media response is a
// structured failure, not an error.
type ImageResult struct {
	Data        []byte
	MIME        string
	BlockReason string
}

// GenerateImage sends the prompt (plus optional reference images, as data
// URLs or raw base64) to the image model and returns the first inline
// media blob from the response.
func (c *Client) GenerateImage(ctx context.Context, prompt string, refImages []string, aspectRatio, style string) (*ImageResult, error) {
	model := c.genai.GenerativeModel(c.imageModel)

	parts := []genai.Part{genai.Text(buildImagePrompt(prompt, aspectRatio, style))}
	for _, img := range refImages {
		format, data, err := decodeDataURL(img)
		if err != nil {
			return nil, fmt.Errorf("invalid reference image: %w", err)
		}
		parts = append(parts, genai.ImageData(format, data))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("image generation request failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return &ImageResult{BlockReason: "no candidates returned by the model"}, nil
	}

	candidate := resp.Candidates[0]
	for _, part := range candidate.Content.Parts {
		if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
			return &ImageResult{Data: blob.Data, MIME: blob.MIMEType}, nil
		}
	}

	reason := "response contained no image data"
	if candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != genai.FinishReasonUnspecified {
		reason = fmt.Sprintf("generation stopped: %s", candidate.FinishReason)
	}
	return &ImageResult{BlockReason: reason}, nil
}

func buildImagePrompt(prompt, aspectRatio, style string) string {
	var sb strings.Builder
	sb.WriteString(prompt)
	if style != "" {
		fmt.Fprintf(&sb, "\nBackground style: %s.", style)
	}
	if aspectRatio != "" {
		fmt.Fprintf(&sb, "\nAspect ratio: %s.", aspectRatio)
	}
	return sb.String()
}

// decodeDataURL accepts either a data: URL or bare base64 and returns the
// image format suffix plus payload bytes.
func decodeDataURL(s string) (string, []byte, error) {
	format := "png"
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return "", nil, fmt.Errorf("malformed data URL")
		}
		meta := s[5:comma]
		s = s[comma+1:]
		if mime, _, found := strings.Cut(meta, ";"); found || mime != "" {
			if _, sub, ok := strings.Cut(mime, "/"); ok {
				format = sub
			}
		}
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", nil, fmt.Errorf("base64 decode failed: %w", err)
	}
	return format, data, nil
}

// ExtensionForMIME maps a media MIME type to a file extension.
func ExtensionForMIME(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	default:
		return ".bin"
	}
}
