package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	defaultModel   = "gpt-image-1"
	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 120 * time.Second

	maxPromptLength = 1000
)

// ErrEmptyPrompt is returned when a generation request carries no prompt.
var ErrEmptyPrompt = errors.New("ai: prompt must not be empty")

// Config describes how the OpenAI client should be initialised.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client generates card backgrounds through the OpenAI Images API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	inflight   singleflight.Group
}

// ImageType tells the generator what the background will sit behind.
type ImageType string

const (
	ImageProfile ImageType = "profile"
	ImageMenu    ImageType = "menu"
	ImageSocial  ImageType = "social"
)

// ImageRequest describes one background generation.
type ImageRequest struct {
	Prompt string    `json:"prompt"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Type   ImageType `json:"type"`
}

// ImageResult carries the generated image as a hosted URL or a data URL.
type ImageResult struct {
	ImageURL string `json:"imageUrl"`
}

// NewClient builds a Client that can generate background images.
func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("ai: api key must not be empty")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
		}
	}

	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
	}, nil
}

// GenerateImage asks the model for a background. Identical requests already
// in flight share one upstream call. The shared call is detached from any
// single caller's cancellation; each caller stops waiting when its own ctx
// is done.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (ImageResult, error) {
	prompt := strings.Join(strings.Fields(req.Prompt), " ")
	if prompt == "" {
		return ImageResult{}, ErrEmptyPrompt
	}
	if len(prompt) > maxPromptLength {
		return ImageResult{}, fmt.Errorf("ai: prompt exceeds %d characters", maxPromptLength)
	}

	payload := map[string]any{
		"model":  c.model,
		"prompt": buildImagePrompt(prompt, req.Type),
		"size":   snapSize(req.Width, req.Height),
		"n":      1,
	}

	key := fmt.Sprintf("%s|%s|%s", payload["size"], req.Type, prompt)
	shared := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(shared, c.timeout)
		defer cancel()
		return c.performImageGeneration(callCtx, payload)
	})

	select {
	case <-ctx.Done():
		return ImageResult{}, fmt.Errorf("ai: generate image: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return ImageResult{}, res.Err
		}
		return res.Val.(ImageResult), nil
	}
}

func buildImagePrompt(prompt string, kind ImageType) string {
	var preamble string
	switch kind {
	case ImageMenu:
		preamble = "Full-bleed background for a restaurant menu. Subtle texture, low detail in the centre so menu text stays readable."
	case ImageSocial:
		preamble = "Vertical background for a social links page. Soft shapes, no faces."
	default:
		preamble = "Portrait background for a digital business card. Abstract, elegant, dark enough for white text."
	}
	return fmt.Sprintf("%s No text, no letters, no logos. Theme: %s", preamble, prompt)
}

// snapSize maps a requested aspect ratio onto a size the API supports.
func snapSize(width, height int) string {
	switch {
	case width > 0 && height > 0 && width > height:
		return "1536x1024"
	case width > 0 && height > 0 && height > width:
		return "1024x1536"
	default:
		return "1024x1024"
	}
}

func (c *Client) performImageGeneration(ctx context.Context, payload map[string]any) (ImageResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return ImageResult{}, fmt.Errorf("ai: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return ImageResult{}, fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ImageResult{}, fmt.Errorf("ai: call openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ImageResult{}, fmt.Errorf("ai: openai returned status %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var responseData struct {
		Data []struct {
			URL     string `json:"url"`
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&responseData); err != nil {
		return ImageResult{}, fmt.Errorf("ai: decode response: %w", err)
	}

	if len(responseData.Data) == 0 {
		return ImageResult{}, errors.New("ai: openai returned no images")
	}

	image := responseData.Data[0]
	switch {
	case strings.TrimSpace(image.URL) != "":
		return ImageResult{ImageURL: strings.TrimSpace(image.URL)}, nil
	case strings.TrimSpace(image.B64JSON) != "":
		return ImageResult{ImageURL: "data:image/png;base64," + strings.TrimSpace(image.B64JSON)}, nil
	default:
		return ImageResult{}, errors.New("ai: openai returned an empty image")
	}
}
