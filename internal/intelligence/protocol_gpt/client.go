// Package protocol_gpt provides LLM-backed protocol analysis: improvement
// suggestions for missing checklist items, clarity and consistency review,
// and executive summaries. It supports OpenAI and Anthropic backends behind
// one chat-completion interface and degrades to deterministic fallbacks when
// no provider is configured.
package protocol_gpt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/turtacn/protoscribe/internal/config"
	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/pkg/errors"
)

// Message is a single chat message sent to a provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Client is the minimal chat-completion surface the analyzer needs.
type Client interface {
	GenerateChatCompletion(ctx context.Context, messages []Message) (string, error)
	Provider() string
}

// NewClient builds the client for the configured provider. It returns nil
// without error when no API key is configured, which puts the analyzer into
// fallback mode.
func NewClient(cfg config.LLMConfig, log logging.Logger) (Client, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Warn("openai api key not configured, llm analysis disabled")
			return nil, nil
		}
		return newOpenAIClient(cfg, log), nil
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Warn("anthropic api key not configured, llm analysis disabled")
			return nil, nil
		}
		return newAnthropicClient(cfg, log), nil
	default:
		return nil, errors.New(errors.ErrCodeAIProviderUnsupported, "unsupported llm provider: "+cfg.Provider)
	}
}

type openAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	log         logging.Logger
}

func newOpenAIClient(cfg config.LLMConfig, log logging.Logger) *openAIClient {
	return &openAIClient{
		client:      openai.NewClient(cfg.OpenAIAPIKey),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
		log:         log.Named("openai"),
	}
}

func (c *openAIClient) Provider() string { return "openai" }

func (c *openAIClient) GenerateChatCompletion(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeAIRequestFailed, "openai chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.ErrCodeAIResponseInvalid, "openai returned no choices")
	}
	c.log.Debug("openai completion received",
		logging.String("model", c.model),
		logging.String("finish_reason", string(resp.Choices[0].FinishReason)))
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

const (
	anthropicAPIVersion = "2023-06-01"
	anthropicBaseURL    = "https://api.anthropic.com/v1/messages"
)

type anthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// anthropicClient talks to the Anthropic messages API directly over HTTP.
type anthropicClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	log         logging.Logger
}

func newAnthropicClient(cfg config.LLMConfig, log logging.Logger) *anthropicClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &anthropicClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     anthropicBaseURL,
		apiKey:      cfg.AnthropicAPIKey,
		model:       cfg.AnthropicModel,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		log:         log.Named("anthropic"),
	}
}

func (c *anthropicClient) Provider() string { return "anthropic" }

func (c *anthropicClient) GenerateChatCompletion(ctx context.Context, messages []Message) (string, error) {
	// The messages API takes the system prompt as a top-level field.
	reqBody := anthropicRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: &c.temperature,
	}
	for _, m := range messages {
		if m.Role == RoleSystem {
			reqBody.System = m.Content
			continue
		}
		reqBody.Messages = append(reqBody.Messages, anthropicMessage{Role: m.Role, Content: m.Content})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "marshal anthropic request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeAIRequestFailed, "build anthropic request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeAIRequestFailed, "anthropic request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeAIRequestFailed, "read anthropic response")
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeAIResponseInvalid, "decode anthropic response")
	}
	if parsed.Error != nil {
		return "", errors.New(errors.ErrCodeAIRequestFailed,
			fmt.Sprintf("anthropic api error (%s): %s", parsed.Error.Type, parsed.Error.Message))
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.New(errors.ErrCodeAIRequestFailed,
			fmt.Sprintf("anthropic api returned status %d", resp.StatusCode))
	}
	if len(parsed.Content) == 0 {
		return "", errors.New(errors.ErrCodeAIResponseInvalid, "anthropic returned no content blocks")
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
