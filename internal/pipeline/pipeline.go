package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/thrive-wellness/chatbot-engine/internal/catalog"
	"github.com/thrive-wellness/chatbot-engine/internal/index"
	"github.com/thrive-wellness/chatbot-engine/internal/llm"
	"github.com/thrive-wellness/chatbot-engine/internal/observability"
)

// NoInformationMessage is returned when neither retrieval nor the live catalog
// produced any usable context.
const NoInformationMessage = "I couldn't find relevant information about that. Try asking about our products, team, shipping, or contact info!"

// maxSources caps how many retrieved passages are cited per answer.
const maxSources = 3

// sourceSnippetChars caps the length of each cited snippet.
const sourceSnippetChars = 200

// CatalogFetcher reads the live product catalog.
type CatalogFetcher interface {
	FetchAvailable(ctx context.Context) ([]catalog.Record, error)
}

// Source is a citation attached to an answer.
type Source struct {
	Content string `json:"content"`
	Title   string `json:"title"`
}

// ChatResult is the final pipeline output for one request.
type ChatResult struct {
	Response string   `json:"response"`
	Sources  []Source `json:"sources"`
}

// Pipeline answers a single query end to end. All fields are set at startup
// and read-only afterwards, so one Pipeline serves concurrent requests.
type Pipeline struct {
	searcher     index.Searcher
	rewriter     *Rewriter
	classifier   *catalog.Classifier
	fetcher      CatalogFetcher // nil when the catalog service is not configured
	chain        *llm.Chain
	businessName string
	topK         int
	fetchK       int
	maxChars     int
	logger       *observability.Logger
}

// Options configures a Pipeline.
type Options struct {
	Searcher        index.Searcher
	Rewriter        *Rewriter
	Classifier      *catalog.Classifier
	Fetcher         CatalogFetcher
	Chain           *llm.Chain
	BusinessName    string
	TopK            int
	FetchK          int
	MaxContextChars int
	Logger          *observability.Logger
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = observability.Nop()
	}

	rewriter := opts.Rewriter
	if rewriter == nil {
		rewriter = NewRewriter(nil, false, logger)
	}

	classifier := opts.Classifier
	if classifier == nil {
		classifier = catalog.NewClassifier(nil)
	}

	businessName := opts.BusinessName
	if businessName == "" {
		businessName = "Thrive Wellness"
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = 7
	}

	fetchK := opts.FetchK
	if fetchK <= 0 {
		fetchK = 20
	}

	maxChars := opts.MaxContextChars
	if maxChars <= 0 {
		maxChars = 3000
	}

	chain := opts.Chain
	if chain == nil {
		chain = llm.NewChain(llm.ChainConfig{Logger: logger})
	}

	return &Pipeline{
		searcher:     opts.Searcher,
		rewriter:     rewriter,
		classifier:   classifier,
		fetcher:      opts.Fetcher,
		chain:        chain,
		businessName: businessName,
		topK:         topK,
		fetchK:       fetchK,
		maxChars:     maxChars,
		logger:       logger,
	}
}

// Answer runs the full pipeline for one user message. Rewrite and catalog
// failures degrade silently; a missing index or a retrieval failure surfaces
// as an error.
func (p *Pipeline) Answer(ctx context.Context, message string) (*ChatResult, error) {
	if p.searcher == nil {
		return nil, index.ErrIndexUnavailable
	}

	query := NormalizeQuery(message)
	if query == "" {
		return &ChatResult{Response: NoInformationMessage, Sources: []Source{}}, nil
	}

	retrievalQuery := p.rewriter.Rewrite(ctx, query)

	passages, err := p.searcher.Search(ctx, retrievalQuery, p.topK, p.fetchK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	var records []catalog.Record
	if p.fetcher != nil && p.classifier.IsProductQuery(query) {
		records, err = p.fetcher.FetchAvailable(ctx)
		if err != nil {
			// Product context is optional; retrieval alone may still answer.
			p.logger.Warn().Err(err).Msg("Catalog fetch failed, continuing without product context")
			records = nil
		} else {
			p.logger.Info().Int("count", len(records)).Msg("Fetched live products from catalog")
		}
	}

	fused := FuseContext(records, passages, p.maxChars)
	if strings.TrimSpace(fused) == "" {
		return &ChatResult{Response: NoInformationMessage, Sources: []Source{}}, nil
	}

	prompt := BuildPrompt(p.businessName, fused, query)
	result := p.chain.Generate(ctx, prompt)

	p.logger.Info().
		Str("provider", result.Provider).
		Str("state", result.State.String()).
		Int("passages", len(passages)).
		Int("products", len(records)).
		Msg("Generated chat response")

	return &ChatResult{
		Response: result.Text,
		Sources:  p.assembleSources(passages),
	}, nil
}

func (p *Pipeline) assembleSources(passages []index.Passage) []Source {
	sources := make([]Source, 0, maxSources)
	for _, passage := range passages {
		if len(sources) == maxSources {
			break
		}

		title := passage.Title
		if title == "" {
			title = p.businessName
		}

		sources = append(sources, Source{
			Content: truncateRunes(passage.Content, sourceSnippetChars),
			Title:   title,
		})
	}
	return sources
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
