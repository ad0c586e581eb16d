package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptDeterministic(t *testing.T) {
	first := BuildPrompt("Thrive Wellness", "some context", "what are your hours")
	second := BuildPrompt("Thrive Wellness", "some context", "what are your hours")
	assert.Equal(t, first, second, "identical inputs must produce identical prompts")
}

func TestBuildPromptContents(t *testing.T) {
	prompt := BuildPrompt("Thrive Wellness", "LIVE PRODUCT DATA FROM DATABASE:\n\nBOTTLES:\n  - Iceberg - $34.99", "how much is the iceberg")

	assert.Contains(t, prompt, "You are Thrive Wellness's helpful AI assistant.")
	assert.Contains(t, prompt, "ONLY the context below")
	assert.Contains(t, prompt, "ALWAYS use the LIVE PRODUCT DATA")
	assert.Contains(t, prompt, "Context:\nLIVE PRODUCT DATA FROM DATABASE:")
	assert.Contains(t, prompt, "User question: how much is the iceberg")
	assert.Contains(t, prompt, "Answer (be direct and conversational")
}
