// Package llm is the text-generation and embedding client of the mentor.
// Every supported provider is reached through its OpenAI-compatible API.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/trezcool/mentor/core"
)

const (
	opChat  = "chat"
	opEmbed = "embed"
)

var errEmptyResponse = errors.New("LLM returned no choices")

// Message is a chat message. Role is "system", "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type (
	Client struct {
		conf        core.LLMConfig
		chat        *openai.Client
		embed       *openai.Client // nil when embeddings are not configured
		embedErr    error
		httpClient  *http.Client
		retryConfig RetryConfig
		metrics     *Metrics
		logger      core.Logger
	}

	ClientOption func(*Client)
)

func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

func WithRetryConfig(rc RetryConfig) ClientOption {
	return func(client *Client) {
		client.retryConfig = rc
	}
}

func WithMetrics(m *Metrics) ClientOption {
	return func(client *Client) {
		client.metrics = m
	}
}

// NewClient builds a client from the startup configuration.
// It fails when the chat provider is unknown or is a hosted provider without an API key.
// A misconfigured embedding provider only fails the Embed calls.
func NewClient(conf core.LLMConfig, logger core.Logger, opts ...ClientOption) (*Client, error) {
	retryConfig := DefaultRetryConfig()
	retryConfig.MaxRetries = conf.MaxRetries

	c := &Client{
		conf:        conf,
		retryConfig: retryConfig,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: conf.Timeout}
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
	}

	baseURL, apiKey, err := endpoint(conf.Provider, conf.BaseURL, conf.APIKey, false)
	if err != nil {
		return nil, errors.Wrap(err, "configuring chat provider")
	}
	c.chat = c.newOpenAIClient(baseURL, apiKey)

	embedURL, embedKey, err := endpoint(conf.EmbedProvider, conf.EmbedBaseURL, conf.EmbedAPIKey, true)
	if err != nil {
		c.embedErr = NewFatalError(errors.Wrap(err, "configuring embedding provider"))
	} else {
		c.embed = c.newOpenAIClient(embedURL, embedKey)
	}
	return c, nil
}

func (c *Client) newOpenAIClient(baseURL, apiKey string) *openai.Client {
	oaConf := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		oaConf.BaseURL = baseURL
	}
	oaConf.HTTPClient = c.httpClient
	return openai.NewClientWithConfig(oaConf)
}

func (c *Client) Provider() string   { return c.conf.Provider }
func (c *Client) ChatModel() string  { return c.conf.ChatModel }
func (c *Client) EmbedModel() string { return c.conf.EmbedModel }

// Chat sends messages to the chat model and returns the content of the first choice.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", NewFatalError(errors.New("at least one message is required"))
	}
	req := openai.ChatCompletionRequest{
		Model:       c.conf.ChatModel,
		Temperature: c.conf.Temperature,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	var content string
	err := c.do(ctx, c.conf.Provider, opChat, func() error {
		resp, err := c.chat.CreateChatCompletion(ctx, req)
		if err != nil {
			return classify(err)
		}
		if len(resp.Choices) == 0 {
			return NewFatalError(errEmptyResponse)
		}
		content = resp.Choices[0].Message.Content
		return nil
	})
	return content, err
}

// Generate sends a system prompt followed by the user's prompt.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.Chat(ctx, []Message{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userPrompt},
	})
}

// Embed returns one embedding per text, in order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if c.embed == nil {
		return nil, c.embedErr
	}
	if len(texts) == 0 {
		return nil, nil
	}
	req := openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.conf.EmbedModel),
	}

	var vectors [][]float32
	err := c.do(ctx, c.conf.EmbedProvider, opEmbed, func() error {
		resp, err := c.embed.CreateEmbeddings(ctx, req)
		if err != nil {
			return classify(err)
		}
		if len(resp.Data) != len(texts) {
			return NewFatalError(errors.Errorf("got %d embeddings for %d texts", len(resp.Data), len(texts)))
		}
		vectors = make([][]float32, len(texts))
		for _, emb := range resp.Data {
			if emb.Index < 0 || emb.Index >= len(texts) {
				return NewFatalError(errors.Errorf("embedding index %d out of range", emb.Index))
			}
			vectors[emb.Index] = emb.Embedding
		}
		return nil
	})
	return vectors, err
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// do runs op with retries and records its metrics.
func (c *Client) do(ctx context.Context, provider, op string, fn func() error) error {
	start := time.Now()
	err := c.retryConfig.retry(ctx, fn, func(err error, wait time.Duration) {
		c.metrics.retries.WithLabelValues(provider, op).Inc()
		c.logger.Warn(fmt.Sprintf("llm %s (%s) failed, retrying in %v", op, provider, wait), err)
	})
	c.metrics.latency.WithLabelValues(provider, op).Observe(time.Since(start).Seconds())
	c.metrics.requests.WithLabelValues(provider, op, outcome(err)).Inc()
	if err != nil {
		return errors.Wrapf(err, "llm %s (%s)", op, provider)
	}
	return nil
}
