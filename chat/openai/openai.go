// Package openai implements the chat client on an OpenAI compatible chat completions endpoint.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yaoapp/graphchat/chat"
	"github.com/yaoapp/graphchat/helper"
	"github.com/yaoapp/graphchat/http"
	"github.com/yaoapp/graphchat/types"
	"github.com/yaoapp/kun/log"
	"golang.org/x/time/rate"
)

// Defaults
const (
	DefaultHost    = "https://api.openai.com"
	DefaultModel   = "gpt-4o"
	DefaultTimeout = 120 * time.Second
	Endpoint       = "/chat/completions"
)

var _ chat.Client = (*Client)(nil)

// Options the openai client option
type Options struct {
	Host        string  `json:"host,omitempty"`  // API endpoint, e.g. "https://api.openai.com" or custom endpoint
	Model       string  `json:"model,omitempty"` // Model name, e.g. "gpt-4o"
	Key         string  `json:"key"`             // API key
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Timeout     time.Duration
	RateLimit   float64 // Requests per second, 0 means unlimited
	Burst       int
}

// Client the chat completions client
type Client struct {
	options Options
	url     string
	limiter *rate.Limiter
}

// OptionsFrom converts the llm config, $ENV. values are expanded
func OptionsFrom(cfg types.LLMConfig) Options {
	return Options{
		Host:        helper.EnvString(cfg.Host),
		Model:       helper.EnvString(cfg.Model),
		Key:         helper.EnvString(cfg.Key),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     time.Duration(cfg.Timeout) * time.Second,
		RateLimit:   cfg.RateLimit,
		Burst:       cfg.Burst,
	}
}

// New create a new client
func New(options Options) (*Client, error) {
	if options.Key == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	if options.Host == "" {
		options.Host = DefaultHost
	}
	if options.Model == "" {
		options.Model = DefaultModel
	}
	if options.Timeout <= 0 {
		options.Timeout = DefaultTimeout
	}

	client := &Client{options: options, url: URL(options.Host, Endpoint)}
	if options.RateLimit > 0 {
		burst := options.Burst
		if burst <= 0 {
			burst = 1
		}
		client.limiter = rate.NewLimiter(rate.Limit(options.RateLimit), burst)
	}
	return client, nil
}

// URL joins the host and the endpoint, api.openai.com gets the /v1 prefix
func URL(host, endpoint string) string {
	// endpoint not start with /, then add /
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}

	// Host is api.openai.com & endpoint not has /v1, then add /v1
	host = strings.TrimSuffix(host, "/")
	if host == DefaultHost && !strings.HasPrefix(endpoint, "/v1") {
		endpoint = "/v1" + endpoint
	}

	return fmt.Sprintf("%s/%s", host, strings.TrimPrefix(endpoint, "/"))
}

// Setting get the client setting, the key is masked
func (c *Client) Setting() map[string]interface{} {
	key := ""
	if len(c.options.Key) > 4 {
		key = "****" + c.options.Key[len(c.options.Key)-4:]
	}
	return map[string]interface{}{
		"host":  c.options.Host,
		"model": c.options.Model,
		"key":   key,
		"url":   c.url,
	}
}

// Send posts the conversation and returns the first choice. Every failure is a *types.TransportError.
func (c *Client) Send(ctx context.Context, turns []types.ChatTurn) (types.ChatTurn, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return types.ChatTurn{}, &types.TransportError{Err: err}
		}
	}

	messages := make([]map[string]interface{}, 0, len(turns))
	for _, turn := range turns {
		messages = append(messages, map[string]interface{}{"role": string(turn.Role), "content": turn.Content})
	}

	payload := map[string]interface{}{
		"model":    c.options.Model,
		"messages": messages,
	}
	if c.options.Temperature > 0 {
		payload["temperature"] = c.options.Temperature
	}
	if c.options.MaxTokens > 0 {
		payload["max_tokens"] = c.options.MaxTokens
	}

	start := time.Now()
	resp := http.New(c.url).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", c.options.Key)).
		SetHeader("Content-Type", "application/json").
		WithContext(ctx).
		WithTimeout(c.options.Timeout).
		Post(payload)

	if resp.Status != 200 {
		message := resp.Message
		if message == "" {
			message = fmt.Sprintf("%v", resp.Data)
		}
		log.With(log.F{"url": c.url, "status": resp.Status}).Error("chat completion failed: %s", message)
		return types.ChatTurn{}, &types.TransportError{Err: fmt.Errorf("request failed with status: %d, %s", resp.Status, message)}
	}

	var completion Completion
	if err := resp.Bind(&completion); err != nil {
		return types.ChatTurn{}, &types.TransportError{Err: fmt.Errorf("invalid completion: %w", err)}
	}

	if len(completion.Choices) == 0 {
		return types.ChatTurn{}, &types.TransportError{Err: fmt.Errorf("completion has no choices")}
	}

	log.With(log.F{
		"model":    completion.Model,
		"tokens":   completion.Usage.TotalTokens,
		"duration": time.Since(start).String(),
	}).Debug("chat completion")

	return types.NewTurn(types.RoleAssistant, completion.Choices[0].Message.Content, ""), nil
}
