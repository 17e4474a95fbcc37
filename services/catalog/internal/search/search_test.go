package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalloot/storefront/services/catalog/internal/models"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":1},"hits":[{"_source":{"id":7,"name":"Hollow Knight","price":"14.99","platform":"PC","active":true}}]}}`)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	default:
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}
}

func newTestIndex(t *testing.T) (*Index, *fakeES) {
	t.Helper()
	fake := &fakeES{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	ix, err := NewIndex(context.Background(), Config{URL: srv.URL, Index: "test_products"})
	require.NoError(t, err)
	return ix, fake
}

func TestIndex_Search(t *testing.T) {
	ix, fake := newTestIndex(t)

	total, items, err := ix.Search(context.Background(), "hollow", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, uint(7), items[0].ID)
	assert.True(t, items[0].Price.Equal(decimal.RequireFromString("14.99")))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	last := fake.bodies[len(fake.bodies)-1]
	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(last), &q))
	assert.Contains(t, last, `"name^2"`)
	assert.Contains(t, last, `"fuzziness":"AUTO"`)
	assert.Equal(t, float64(10), q["size"])
}

func TestIndex_PutAndRemove(t *testing.T) {
	ix, fake := newTestIndex(t)

	require.NoError(t, ix.Put(context.Background(), &models.Product{ID: 3, Name: "Celeste", Price: decimal.NewFromInt(20)}))
	require.NoError(t, ix.Remove(context.Background(), 3))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.requests, "PUT /test_products/_doc/3")
	assert.Contains(t, fake.requests, "DELETE /test_products/_doc/3")
}
