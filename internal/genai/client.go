package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SourceImage is the user-supplied image a generation run starts from.
type SourceImage struct {
	Data     []byte
	MIMEType string
}

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client wraps the Gemini generateContent call for image-to-image
// generation. It issues one request per Generate call and holds no state
// between calls; cancellation is the caller's context.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with a generous timeout is
// created.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash-image"
	}

	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inlineData,omitempty"`
}

type blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type generateContentResponse struct {
	Candidates     []candidate     `json:"candidates"`
	PromptFeedback *promptFeedback `json:"promptFeedback,omitempty"`
}

type candidate struct {
	Content content `json:"content"`
}

type promptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// Generate submits the source image together with the composed prompt and
// returns the raw bytes of the first image the model produced. Failures are
// returned as *Error with a Kind the orchestrator surfaces per item.
func (c *Client) Generate(ctx context.Context, src SourceImage, prompt string) ([]byte, error) {
	payload := generateContentRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &blob{
					MIMEType: src.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(src.Data),
				}},
				{Text: prompt},
			},
		}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Message: fmt.Sprintf("marshal request: %v", err)}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Message: upstreamMessage(err.Error())}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn().Int("status", resp.StatusCode).Str("model", c.model).Msg("genai: upstream error")
		return nil, &Error{Kind: KindUpstream, Message: upstreamMessage(strings.TrimSpace(string(raw)))}
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &Error{Kind: KindUpstream, Message: fmt.Sprintf("decode response: %v", err)}
	}

	return classify(decoded)
}

// classify turns a decoded response into image bytes or a classified
// failure, per the candidate/parts contract of the generateContent API.
func classify(resp generateContentResponse) ([]byte, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, &Error{
				Kind:    KindPolicyBlocked,
				Message: fmt.Sprintf("generation blocked by safety policies (%s)", resp.PromptFeedback.BlockReason),
			}
		}
		return nil, &Error{Kind: KindEmptyResponse, Message: "the API returned an empty response"}
	}

	parts := resp.Candidates[0].Content.Parts
	for _, p := range parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, &Error{Kind: KindUpstream, Message: fmt.Sprintf("decode image payload: %v", err)}
			}
			return data, nil
		}
	}

	var texts []string
	for _, p := range parts {
		if t := strings.TrimSpace(p.Text); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) > 0 {
		return nil, &Error{
			Kind:    KindTextOnly,
			Message: fmt.Sprintf("the API returned text instead of an image: %q", strings.Join(texts, " ")),
		}
	}

	return nil, &Error{Kind: KindEmptyResponse, Message: "no image data was returned from the API"}
}
