package llm

import (
	"context"
	"strings"

	"github.com/thrive-wellness/chatbot-engine/internal/observability"
)

// ApologyMessage is returned when every provider fails to produce a usable answer.
const ApologyMessage = "I'm having trouble generating a response right now. Please try again."

// State identifies which provider the chain is currently attempting.
type State int

const (
	// StatePrimary is the configured primary provider.
	StatePrimary State = iota
	// StateSecondary is the local fallback provider.
	StateSecondary
	// StateExhausted means no provider produced a usable answer.
	StateExhausted
)

// String returns a readable name for logging.
func (s State) String() string {
	switch s {
	case StatePrimary:
		return "primary"
	case StateSecondary:
		return "secondary"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Result describes the outcome of a chain invocation.
type Result struct {
	Text     string
	Provider string // empty when the chain was exhausted
	State    State
}

// Chain tries the primary provider, then the secondary, and falls back to a
// fixed apology once both have failed. Each provider gets exactly one attempt.
type Chain struct {
	primary        Provider
	secondary      Provider
	minAnswerChars int
	logger         *observability.Logger
}

// ChainConfig configures a generation chain. Either provider may be nil.
type ChainConfig struct {
	Primary        Provider
	Secondary      Provider
	MinAnswerChars int
	Logger         *observability.Logger
}

// NewChain creates a generation chain.
func NewChain(cfg ChainConfig) *Chain {
	logger := cfg.Logger
	if logger == nil {
		logger = observability.Nop()
	}

	minChars := cfg.MinAnswerChars
	if minChars <= 0 {
		minChars = 10
	}

	return &Chain{
		primary:        cfg.Primary,
		secondary:      cfg.Secondary,
		minAnswerChars: minChars,
		logger:         logger,
	}
}

// Generate walks the provider chain and always returns a usable result. A
// provider error or an answer shorter than the acceptance threshold advances
// the chain to the next provider.
func (c *Chain) Generate(ctx context.Context, prompt string) Result {
	if text, ok := c.attempt(ctx, StatePrimary, c.primary, prompt); ok {
		return Result{Text: text, Provider: c.primary.Name(), State: StatePrimary}
	}

	if text, ok := c.attempt(ctx, StateSecondary, c.secondary, prompt); ok {
		return Result{Text: text, Provider: c.secondary.Name(), State: StateSecondary}
	}

	c.logger.Warn().Msg("All generation providers exhausted, returning apology")

	return Result{Text: ApologyMessage, State: StateExhausted}
}

func (c *Chain) attempt(ctx context.Context, state State, provider Provider, prompt string) (string, bool) {
	if provider == nil {
		return "", false
	}

	text, err := provider.Generate(ctx, prompt)
	if err != nil {
		c.logger.Warn().
			Str("provider", provider.Name()).
			Str("state", state.String()).
			Err(err).
			Msg("Generation attempt failed")
		return "", false
	}

	trimmed := strings.TrimSpace(text)
	if len(trimmed) < c.minAnswerChars {
		c.logger.Warn().
			Str("provider", provider.Name()).
			Str("state", state.String()).
			Int("length", len(trimmed)).
			Msg("Generation attempt too short, advancing chain")
		return "", false
	}

	return trimmed, true
}
