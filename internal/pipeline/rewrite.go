package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/thrive-wellness/chatbot-engine/internal/llm"
	"github.com/thrive-wellness/chatbot-engine/internal/observability"
)

// Rewriter asks a generation provider to rewrite the user's query into a
// cleaner search form. Every failure mode falls back to the original query.
type Rewriter struct {
	provider llm.Provider
	enabled  bool
	logger   *observability.Logger
}

// NewRewriter creates a query rewriter. A nil provider disables rewriting
// regardless of the enabled flag.
func NewRewriter(provider llm.Provider, enabled bool, logger *observability.Logger) *Rewriter {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Rewriter{provider: provider, enabled: enabled, logger: logger}
}

// Rewrite returns the query to use for retrieval. The rewritten text is
// stripped of surrounding quotes and re-normalized; if the provider errors or
// returns nothing usable, the original query is returned unchanged.
func (r *Rewriter) Rewrite(ctx context.Context, query string) string {
	if !r.enabled || r.provider == nil || query == "" {
		return query
	}

	prompt := fmt.Sprintf(
		"Rewrite the user's message into a clean, correctly spelled search query. "+
			"Keep the meaning the same, keep it short, and do not add new facts. "+
			"Return ONLY the rewritten query text.\n\n"+
			"User message: %s\n\n"+
			"Rewritten query:", query)

	rewritten, err := r.provider.Generate(ctx, prompt)
	if err != nil {
		r.logger.Debug().Err(err).Msg("Query rewrite failed, using original query")
		return query
	}

	rewritten = strings.TrimSpace(rewritten)
	rewritten = strings.TrimPrefix(rewritten, `"`)
	rewritten = strings.TrimSuffix(rewritten, `"`)
	rewritten = NormalizeQuery(rewritten)
	if rewritten == "" {
		return query
	}

	r.logger.Debug().Str("original", query).Str("rewritten", rewritten).Msg("Query rewritten for retrieval")
	return rewritten
}
