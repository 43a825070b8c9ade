package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vkuzmenko/citescope/internal/model"
)

// Rewriter produces a revised draft of the content that addresses the
// named weaknesses while preserving the author's facts and voice
type Rewriter interface {
	Rewrite(ctx context.Context, content string, weaknesses []string) (string, error)
}

// OptimizeResult pairs the rewritten draft with both audits so the caller
// can verify the rewrite actually moved the score
type OptimizeResult struct {
	Before  *model.AuditResult `json:"before"`
	After   *model.AuditResult `json:"after"`
	Content string             `json:"content"`
}

// Optimizer audits, rewrites against the weakest dimensions, and re-audits
type Optimizer struct {
	analyzer *Analyzer
	rewriter Rewriter
}

// NewOptimizer pairs an analyzer with a rewriter
func NewOptimizer(analyzer *Analyzer, rewriter Rewriter) *Optimizer {
	return &Optimizer{analyzer: analyzer, rewriter: rewriter}
}

// Optimize runs the audit-rewrite-audit loop once. A rewrite that scores
// worse is still returned; the caller decides whether to keep it.
func (o *Optimizer) Optimize(ctx context.Context, content, label, platform string) (*OptimizeResult, error) {
	before, err := o.analyzer.AuditText(content, label, platform)
	if err != nil {
		return nil, err
	}

	rewritten, err := o.rewriter.Rewrite(ctx, content, weakestDimensions(before, 3))
	if err != nil {
		return nil, fmt.Errorf("rewrite: %w", err)
	}

	after, err := o.analyzer.AuditText(rewritten, label, platform)
	if err != nil {
		return nil, fmt.Errorf("re-audit: %w", err)
	}

	return &OptimizeResult{Before: before, After: after, Content: rewritten}, nil
}

// weakestDimensions collects recommendations from the n lowest-scoring
// dimensions, ordered worst first
func weakestDimensions(result *model.AuditResult, n int) []string {
	dims := make([]model.DimensionResult, len(result.Dimensions))
	copy(dims, result.Dimensions)
	sort.SliceStable(dims, func(i, j int) bool { return dims[i].Score < dims[j].Score })

	var out []string
	for _, d := range dims {
		if len(out) >= n {
			break
		}
		for _, b := range d.Breakdown {
			out = append(out, b.Recommendations...)
		}
	}
	if len(out) > n*2 {
		out = out[:n*2]
	}
	return out
}

// OpenAIRewriter rewrites content through an OpenAI-compatible chat endpoint
type OpenAIRewriter struct {
	client *openai.Client
	model  string
}

// NewOpenAIRewriter builds a rewriter from one platform endpoint config
func NewOpenAIRewriter(cfg model.PlatformConfig) *OpenAIRewriter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	m := cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}
	return &OpenAIRewriter{client: openai.NewClientWithConfig(clientCfg), model: m}
}

const rewriteSystemPrompt = `You are an editor improving web content so answer engines can cite it.
Rewrite the provided content to fix the listed weaknesses. Keep every fact,
figure, and source. Keep the author's voice. Open with a direct definition
of the subject. Return only the rewritten content, no commentary.`

func (r *OpenAIRewriter) Rewrite(ctx context.Context, content string, weaknesses []string) (string, error) {
	var prompt strings.Builder
	prompt.WriteString("Weaknesses to fix:\n")
	if len(weaknesses) == 0 {
		prompt.WriteString("- improve overall clarity and citability\n")
	}
	for _, w := range weaknesses {
		prompt.WriteString("- " + w + "\n")
	}
	prompt.WriteString("\nContent:\n" + content)

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: rewriteSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt.String()},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
