package index

// mmrLambda balances relevance against redundancy in maximal-marginal-relevance
// selection. 0.5 matches the selection behavior the knowledge base was tuned on.
const mmrLambda = 0.5

// maximalMarginalRelevance picks k candidate indices, each iteration taking the
// candidate that maximizes lambda*sim(query, c) - (1-lambda)*max sim(c, picked).
// Candidates are expected in descending relevance order; ties keep that order.
func maximalMarginalRelevance(relevance []float32, vectors [][]float32, k int) []int {
	if k <= 0 || len(vectors) == 0 {
		return nil
	}
	if k > len(vectors) {
		k = len(vectors)
	}

	selected := make([]int, 0, k)
	remaining := make([]bool, len(vectors))
	for i := range remaining {
		remaining[i] = true
	}

	for len(selected) < k {
		best := -1
		var bestScore float32

		for i := range vectors {
			if !remaining[i] {
				continue
			}

			var redundancy float32
			for _, s := range selected {
				if sim := dot(vectors[i], vectors[s]); sim > redundancy {
					redundancy = sim
				}
			}

			score := mmrLambda*relevance[i] - (1-mmrLambda)*redundancy
			// Strict > keeps the earlier (higher-ranked) candidate on ties.
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}

		if best == -1 {
			break
		}
		selected = append(selected, best)
		remaining[best] = false
	}

	return selected
}

// dot computes the dot product of two vectors. For unit vectors this is the
// cosine similarity. Mismatched lengths score zero.
func dot(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}

	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}

	// Clamp to [-1, 1] range due to floating point errors
	if sum > 1 {
		sum = 1
	} else if sum < -1 {
		sum = -1
	}

	return sum
}
