package pipeline

import "fmt"

// BuildPrompt assembles the grounding instructions, fused context, and user
// question into a single generation prompt. The template is deterministic:
// identical inputs always yield identical prompts.
func BuildPrompt(businessName, fusedContext, question string) string {
	return fmt.Sprintf(
		"You are %s's helpful AI assistant. "+
			"Answer the user's question using ONLY the context below. "+
			"For product prices, ALWAYS use the LIVE PRODUCT DATA if available - these are the current real-time prices. "+
			"Be concise, friendly, and helpful. Give direct answers without repeating the context. "+
			"If the answer isn't in the context, say you don't know.\n\n"+
			"Context:\n%s\n\n"+
			"User question: %s\n\n"+
			"Answer (be direct and conversational, don't just dump the context):",
		businessName, fusedContext, question)
}
