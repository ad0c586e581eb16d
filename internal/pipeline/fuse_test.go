package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thrive-wellness/chatbot-engine/internal/catalog"
	"github.com/thrive-wellness/chatbot-engine/internal/index"
)

func TestStripURLLines(t *testing.T) {
	text := "Our shipping policy is simple.\nurl: https://example.com/shipping\nOrders ship in 2 days."
	got := StripURLLines(text)
	assert.NotContains(t, got, "example.com")
	assert.Contains(t, got, "shipping policy")
	assert.Contains(t, got, "Orders ship in 2 days.")

	assert.Equal(t, "", StripURLLines(""))
	assert.Equal(t, "no annotations here", StripURLLines("no annotations here"))

	// Case-insensitive with leading whitespace.
	assert.Equal(t, "kept", StripURLLines("  URL: https://x.test/a  \nkept"))
}

func TestRenderCatalogContext(t *testing.T) {
	records := []catalog.Record{
		{Name: "Iceberg", Category: "Water Bottles", Price: 34.99, SKU: "WB-001", Color: "Blue"},
		{Name: "Surge", Category: "Supplements", Price: 49.50},
		{Name: "Glacier", Category: "Water Bottles", Price: 29.99},
	}

	got := RenderCatalogContext(records)
	assert.True(t, strings.HasPrefix(got, "LIVE PRODUCT DATA FROM DATABASE:"))
	assert.Contains(t, got, "WATER BOTTLES:")
	assert.Contains(t, got, "SUPPLEMENTS:")
	assert.Contains(t, got, "  - Iceberg (Blue) - $34.99 [SKU: WB-001]")
	assert.Contains(t, got, "  - Surge - $49.50")
	assert.Contains(t, got, "  - Glacier - $29.99")

	// Categories render in first-seen order.
	assert.Less(t, strings.Index(got, "WATER BOTTLES:"), strings.Index(got, "SUPPLEMENTS:"))
}

func TestRenderCatalogContextEmpty(t *testing.T) {
	assert.Equal(t, "", RenderCatalogContext(nil))
}

func TestRenderCatalogContextDefaults(t *testing.T) {
	got := RenderCatalogContext([]catalog.Record{{Price: 5}})
	assert.Contains(t, got, "OTHER:")
	assert.Contains(t, got, "  - Unknown - $5.00")
}

func TestFuseContextCatalogFirst(t *testing.T) {
	records := []catalog.Record{{Name: "Iceberg", Category: "Bottles", Price: 34.99}}
	passages := []index.Passage{{Content: "We ship worldwide.", Title: "Shipping"}}

	got := FuseContext(records, passages, 3000)
	catalogIdx := strings.Index(got, "LIVE PRODUCT DATA")
	kbIdx := strings.Index(got, "We ship worldwide.")
	assert.GreaterOrEqual(t, catalogIdx, 0)
	assert.Greater(t, kbIdx, catalogIdx, "catalog block must precede retrieved text")
}

func TestFuseContextPassagesOnly(t *testing.T) {
	passages := []index.Passage{
		{Content: "First passage."},
		{Content: "Second passage."},
	}

	got := FuseContext(nil, passages, 3000)
	assert.Equal(t, "First passage.\n\nSecond passage.", got)
}

func TestFuseContextBudget(t *testing.T) {
	passages := []index.Passage{{Content: strings.Repeat("a", 500)}}
	for _, budget := range []int{1, 10, 100, 499, 500, 501} {
		got := FuseContext(nil, passages, budget)
		assert.LessOrEqual(t, len(got), budget)
	}
}

func TestFuseContextEmpty(t *testing.T) {
	assert.Equal(t, "", FuseContext(nil, nil, 3000))

	// Passages that are nothing but URL annotations fuse to empty.
	passages := []index.Passage{{Content: "url: https://x.test/only"}}
	assert.Equal(t, "", FuseContext(nil, passages, 3000))
}
