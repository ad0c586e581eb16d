package catalog

import "strings"

// Classifier decides whether a query concerns priced or stocked items, using
// case-insensitive substring matching against a keyword set. Best-effort: a
// false negative only loses live pricing, a false positive costs one fetch.
type Classifier struct {
	keywords []string
}

// NewClassifier creates a classifier over the given keywords.
func NewClassifier(keywords []string) *Classifier {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &Classifier{keywords: lowered}
}

// IsProductQuery reports whether the query mentions any configured keyword.
func (c *Classifier) IsProductQuery(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range c.keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
