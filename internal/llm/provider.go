// Package llm provides generation providers and the fallback chain that
// selects between them.
package llm

import (
	"context"
	"errors"
)

// Provider is a capability that produces natural-language text from a prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// ErrProviderUnavailable indicates a provider cannot be used right now.
var ErrProviderUnavailable = errors.New("generation provider unavailable")

// MockProvider is a scripted provider for tests.
type MockProvider struct {
	ProviderName string
	Response     string
	Err          error
	Calls        int
	Prompts      []string
}

// Generate returns the scripted response or error.
func (m *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// Name returns the mock provider name.
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

var _ Provider = (*MockProvider)(nil)
