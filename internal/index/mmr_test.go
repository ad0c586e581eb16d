package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaximalMarginalRelevance_PicksMostRelevantFirst(t *testing.T) {
	vectors := [][]float32{
		{1, 0},
		{0, 1},
	}
	relevance := []float32{0.9, 0.4}

	picked := maximalMarginalRelevance(relevance, vectors, 1)
	assert.Equal(t, []int{0}, picked)
}

func TestMaximalMarginalRelevance_PenalizesRedundancy(t *testing.T) {
	vectors := [][]float32{
		{1, 0},       // best
		{0.999, 0.04}, // near-duplicate of best
		{0, 1},       // distinct
	}
	relevance := []float32{0.95, 0.94, 0.5}

	picked := maximalMarginalRelevance(relevance, vectors, 2)
	assert.Equal(t, []int{0, 2}, picked)
}

func TestMaximalMarginalRelevance_KZero(t *testing.T) {
	assert.Nil(t, maximalMarginalRelevance([]float32{0.5}, [][]float32{{1}}, 0))
}

func TestMaximalMarginalRelevance_KExceedsCandidates(t *testing.T) {
	vectors := [][]float32{{1, 0}, {0, 1}}
	relevance := []float32{0.9, 0.8}

	picked := maximalMarginalRelevance(relevance, vectors, 10)
	assert.Len(t, picked, 2)
}

func TestMaximalMarginalRelevance_TieKeepsRankOrder(t *testing.T) {
	// Orthogonal vectors with identical relevance: the earlier rank wins each
	// round, so selection order follows input order.
	vectors := [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	relevance := []float32{0.7, 0.7, 0.7}

	picked := maximalMarginalRelevance(relevance, vectors, 3)
	assert.Equal(t, []int{0, 1, 2}, picked)
}

func TestDot(t *testing.T) {
	assert.InDelta(t, 1.0, float64(dot([]float32{1, 0}, []float32{1, 0})), 1e-6)
	assert.InDelta(t, 0.0, float64(dot([]float32{1, 0}, []float32{0, 1})), 1e-6)
	// Mismatched lengths score zero rather than panic.
	assert.Equal(t, float32(0), dot([]float32{1}, []float32{1, 0}))
}
