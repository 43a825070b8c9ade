package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vkuzmenko/citescope/internal/model"
)

// OpenAIEngine probes any OpenAI-compatible chat endpoint. Perplexity and
// most answer-engine APIs speak this protocol with a different base URL.
type OpenAIEngine struct {
	client   *openai.Client
	platform string
	model    string
}

// NewOpenAIEngine builds an engine for one configured platform
func NewOpenAIEngine(platform string, cfg model.PlatformConfig) (*OpenAIEngine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("platform %s: api key not configured", platform)
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	m := cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}
	return &OpenAIEngine{
		client:   openai.NewClientWithConfig(clientCfg),
		platform: platform,
		model:    m,
	}, nil
}

func (e *OpenAIEngine) Platform() string { return e.platform }

const probeSystemPrompt = `Answer the user's question the way a search-grounded
assistant would. Cite the web sources you rely on as full URLs.`

// Ask sends the question and wraps failures in ProbeError so the retry
// layer can tell throttling from hard rejections
func (e *OpenAIEngine) Ask(ctx context.Context, question string) (*Answer, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: probeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, &model.ProbeError{
			Platform:  e.platform,
			Retryable: retryable(err),
			Err:       err,
		}
	}
	if len(resp.Choices) == 0 {
		return nil, &model.ProbeError{Platform: e.platform, Retryable: true, Err: errors.New("empty response")}
	}
	text := resp.Choices[0].Message.Content
	return &Answer{Text: text, Sources: urlRe.FindAllString(text, -1)}, nil
}

// retryable treats throttling and server-side failures as transient;
// auth and bad-request errors never resolve by retrying
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	// Transport-level failures (timeouts, resets) are worth one more try
	return !strings.Contains(err.Error(), "context canceled")
}
