package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/thrive-wellness/chatbot-engine/internal/catalog"
	"github.com/thrive-wellness/chatbot-engine/internal/index"
)

// urlLines matches annotation lines like "url: https://..." that chunks carry
// for link rendering but that waste prompt budget.
var urlLines = regexp.MustCompile(`(?im)^\s*url\s*:\s*\S+\s*$`)

// StripURLLines removes URL annotation lines from passage text.
func StripURLLines(text string) string {
	if text == "" {
		return text
	}
	return strings.TrimSpace(urlLines.ReplaceAllString(text, ""))
}

// RenderCatalogContext formats live catalog records into a context block,
// grouped by category in first-seen order. Returns "" for an empty catalog.
func RenderCatalogContext(records []catalog.Record) string {
	if len(records) == 0 {
		return ""
	}

	var order []string
	byCategory := make(map[string][]catalog.Record)
	for _, rec := range records {
		cat := rec.Category
		if cat == "" {
			cat = "Other"
		}
		if _, seen := byCategory[cat]; !seen {
			order = append(order, cat)
		}
		byCategory[cat] = append(byCategory[cat], rec)
	}

	lines := []string{"LIVE PRODUCT DATA FROM DATABASE:\n"}
	for _, cat := range order {
		lines = append(lines, fmt.Sprintf("\n%s:", strings.ToUpper(cat)))
		for _, rec := range byCategory[cat] {
			name := rec.Name
			if name == "" {
				name = "Unknown"
			}
			line := "  - " + name
			if rec.Color != "" {
				line += fmt.Sprintf(" (%s)", rec.Color)
			}
			line += fmt.Sprintf(" - $%.2f", rec.Price)
			if rec.SKU != "" {
				line += fmt.Sprintf(" [SKU: %s]", rec.SKU)
			}
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}

// FuseContext merges the catalog block (when present) ahead of the retrieved
// passage text and truncates the combined result to maxChars. The budget is
// applied to the combined text, so a large catalog block can crowd out
// retrieved passages.
func FuseContext(records []catalog.Record, passages []index.Passage, maxChars int) string {
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		if stripped := StripURLLines(p.Content); stripped != "" {
			parts = append(parts, stripped)
		}
	}
	kbContext := strings.Join(parts, "\n\n")

	fused := kbContext
	if productContext := RenderCatalogContext(records); productContext != "" {
		if kbContext != "" {
			fused = productContext + "\n\n" + kbContext
		} else {
			fused = productContext
		}
	}

	if maxChars > 0 && len(fused) > maxChars {
		fused = fused[:maxChars]
	}

	return fused
}
