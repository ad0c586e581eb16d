package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Input, 2)

		resp := EmbeddingResponse{
			Object: "list",
			Data: []EmbeddingData{
				{Index: 1, Embedding: []float32{0, 1, 0}},
				{Index: 0, Embedding: []float32{1, 0, 0}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client, err := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)

	embeddings, err := client.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)

	// Results come back positioned by index, not response order.
	assert.Equal(t, []float32{1, 0, 0}, embeddings[0])
	assert.Equal(t, []float32{0, 1, 0}, embeddings[1])
	assert.Equal(t, 3, client.Dimension())
}

func TestClient_Embed_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(EmbeddingResponse{
			Error: &EmbeddingError{Message: "rate limited", Type: "rate_limit"},
		})
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Embed(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestClient_Embed_EmptyInput(t *testing.T) {
	client, err := NewClient(Config{APIKey: "k"})
	require.NoError(t, err)

	embeddings, err := client.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, embeddings)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestMockClient_Deterministic(t *testing.T) {
	mock := NewMockClient(16)

	a, err := mock.EmbedSingle(context.Background(), "same text")
	require.NoError(t, err)
	b, err := mock.EmbedSingle(context.Background(), "same text")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)

	// Zero vector stays zero
	zero := Normalize([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)
}
