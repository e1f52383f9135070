// Package narrative wraps the external LLM collaborator that produces
// per-document free-text summaries. Best-effort by contract: callers
// substitute a placeholder whenever Generate errors.
package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"docintel/contract"
	"docintel/errors"
)

const systemPrompt = "You summarize investigation documents. Reply with a short, " +
	"factual narrative of what the document states. No speculation, no markdown."

var _ contract.NarrativeGenerator = (*Generator)(nil)

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	// MaxChars truncates the submitted text; the exact length is caller
	// policy, not an engine invariant.
	MaxChars int
	// RPM bounds requests per minute against the provider.
	RPM int
}

type Generator struct {
	chatModel model.ChatModel
	limiter   *rate.Limiter
	maxChars  int
}

func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("narrative model init: %w", err)
	}

	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 4000
	}
	if cfg.RPM <= 0 {
		cfg.RPM = 30
	}

	return &Generator{
		chatModel: chatModel,
		limiter:   rate.NewLimiter(rate.Limit(float64(cfg.RPM)/60.0), 1),
		maxChars:  cfg.MaxChars,
	}, nil
}

func (g *Generator) Generate(ctx context.Context, text string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrNarrative, err)
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, Content: truncate(text, g.maxChars)},
	}

	resp, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrNarrative, err)
	}

	narrative := strings.TrimSpace(resp.Content)
	if narrative == "" {
		return "", fmt.Errorf("%w: model returned empty content", errors.ErrNarrative)
	}
	return narrative, nil
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
