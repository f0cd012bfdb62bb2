package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/stretchr/testify/require"
)

func newTestES(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{srv.URL},
	})
	require.NoError(t, err)
	return client
}

func TestSearchDecodesHits(t *testing.T) {
	client := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Contains(t, r.URL.Path, "/products/_search")

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_source": {"id": 7, "name": "widget", "description": "a widget", "price": 1500}},
					{"_source": {"id": 9, "name": "gadget", "description": "a gadget", "price": 2500}}
				]
			}
		}`))
	})

	total, products, err := Search(context.Background(), client, "products", "widget", 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, products, 2)
	require.Equal(t, uint(7), products[0].ID)
	require.Equal(t, "widget", products[0].Name)
	require.Equal(t, int64(1500), products[0].Price)
	require.Equal(t, "gadget", products[1].Name)
}

func TestSearchNoHits(t *testing.T) {
	client := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"hits": {"total": {"value": 0}, "hits": []}}`))
	})

	total, products, err := Search(context.Background(), client, "products", "nothing", 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(0), total)
	require.Empty(t, products)
}

func TestSearchErrorStatus(t *testing.T) {
	client := newTestES(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"type": "parsing_exception"}}`))
	})

	_, _, err := Search(context.Background(), client, "products", "broken", 0, 10)
	require.Error(t, err)
}
