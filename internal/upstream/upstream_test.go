package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItems(n int) []json.RawMessage {
	out := make([]json.RawMessage, n)
	for i := range out {
		out[i] = json.RawMessage(fmt.Sprintf(`{"id":%d,"name":"beer-%d","price":"$5.00"}`, i+1, i+1))
	}
	return out
}

func rawArray(items []json.RawMessage) []byte {
	parts := make([][]byte, len(items))
	for i, it := range items {
		parts[i] = it
	}
	return append(append([]byte("["), bytes.Join(parts, []byte(","))...), ']')
}

func upstreamServer(t *testing.T, collections map[string][]json.RawMessage) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/beers/{type}", func(w http.ResponseWriter, r *http.Request) {
		category := r.PathValue("type")
		if category == "broken" {
			fmt.Fprint(w, `{"error": 404}`)
			return
		}
		items, ok := collections[category]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(rawArray(items))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestWindowBounds(t *testing.T) {
	tests := []struct {
		w      Window
		n      int
		lo, hi int
	}{
		{Window{Limit: 10, Offset: 0}, 25, 0, 10},
		{Window{Limit: 10, Offset: 20}, 25, 20, 25},
		{Window{Limit: 10, Offset: 25}, 25, 25, 25},
		{Window{Limit: 10, Offset: 40}, 25, 25, 25},
		{Window{Limit: 0, Offset: 3}, 25, 3, 3},
		{Window{Limit: -1, Offset: -5}, 25, 0, 0},
		{Window{Limit: int(^uint(0) >> 1), Offset: 2}, 5, 2, 5},
	}
	for _, tt := range tests {
		lo, hi := tt.w.Bounds(tt.n)
		assert.Equal(t, tt.lo, lo, "lo for %+v n=%d", tt.w, tt.n)
		assert.Equal(t, tt.hi, hi, "hi for %+v n=%d", tt.w, tt.n)
	}
}

func TestSliceMatchesUpstreamRange(t *testing.T) {
	all := makeItems(25)
	for offset := 0; offset <= 30; offset += 5 {
		for _, limit := range []int{1, 10, 50} {
			got := Slice(all, Window{Limit: limit, Offset: offset})
			lo := min(offset, len(all))
			hi := min(offset+limit, len(all))
			assert.Equal(t, all[lo:hi], got, "offset=%d limit=%d", offset, limit)
			assert.NotNil(t, got)
		}
	}
}

func TestHTTPSource_Window(t *testing.T) {
	all := makeItems(25)
	srv := upstreamServer(t, map[string][]json.RawMessage{"ale": all})
	src := NewHTTPSource(srv.URL+"/", nil, time.Second)

	got, err := src.Window(context.Background(), "ale", Window{Limit: 10, Offset: 20})
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, all[20:], got)

	got, err = src.Window(context.Background(), "ale", Window{Limit: 10, Offset: 100})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHTTPSource_Errors(t *testing.T) {
	srv := upstreamServer(t, map[string][]json.RawMessage{"ale": makeItems(1)})

	t.Run("non-success status", func(t *testing.T) {
		src := NewHTTPSource(srv.URL, nil, time.Second)
		_, err := src.Collection(context.Background(), "lagers")
		assert.ErrorIs(t, err, ErrUpstreamStatus)
	})

	t.Run("body is not an array", func(t *testing.T) {
		src := NewHTTPSource(srv.URL, nil, time.Second)
		_, err := src.Collection(context.Background(), "broken")
		assert.ErrorIs(t, err, ErrUpstreamFormat)
		_, err = decodeCollection([]byte(`null`))
		assert.ErrorIs(t, err, ErrUpstreamFormat)
	})

	t.Run("transport failure", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		dead.Close()
		src := NewHTTPSource(dead.URL, nil, time.Second)
		_, err := src.Collection(context.Background(), "ale")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrUpstreamStatus))
	})
}

func TestDecodeCollection(t *testing.T) {
	items, err := decodeCollection([]byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	// elements are opaque: any JSON value passes through untouched
	body := `[{"id":3,"name":"Porter","price":4.99,"rating":{"average":4,"reviews":2,"stars":5}},{"name":"no id"},null,1,"x"]`
	items, err = decodeCollection([]byte(body))
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, `{"id":3,"name":"Porter","price":4.99,"rating":{"average":4,"reviews":2,"stars":5}}`, string(items[0]))
	assert.Equal(t, `{"name":"no id"}`, string(items[1]))
	assert.Equal(t, `null`, string(items[2]))
	assert.Equal(t, `1`, string(items[3]))

	for _, bad := range []string{`{"beers": []}`, `null`, `"[]"`, `[1,`, ``} {
		_, err = decodeCollection([]byte(bad))
		assert.ErrorIs(t, err, ErrUpstreamFormat, "body %q", bad)
	}
}

type memStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setHits int
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = value
	m.setHits++
	return nil
}

type countingCollector struct {
	items []json.RawMessage
	err   error
	calls int
}

func (c *countingCollector) Collection(context.Context, string) ([]json.RawMessage, error) {
	c.calls++
	return c.items, c.err
}

func TestCachedSource_FillsAndServesFromCache(t *testing.T) {
	next := &countingCollector{items: makeItems(12)}
	store := &memStore{}
	src := NewCachedSource(next, store, 0)
	assert.Equal(t, DefaultCacheTTL, src.ttl)

	first, err := src.Window(context.Background(), "ale", Window{Limit: 10, Offset: 0})
	require.NoError(t, err)
	second, err := src.Window(context.Background(), "ale", Window{Limit: 10, Offset: 10})
	require.NoError(t, err)

	assert.Len(t, first, 10)
	assert.Len(t, second, 2)
	assert.Equal(t, 1, next.calls, "second window must come from the cache")
	assert.Equal(t, 1, store.setHits)
	assert.Equal(t, next.items[10:], second)
}

func TestCachedSource_KeepsElementsVerbatim(t *testing.T) {
	items := []json.RawMessage{
		json.RawMessage(`{"id":1,"rating":{"average":4,"reviews":2,"stars":5}}`),
		json.RawMessage(`null`),
		json.RawMessage(`{"price":4.99}`),
	}
	store := &memStore{}
	warm := NewCachedSource(&countingCollector{items: items}, store, time.Minute)
	_, err := warm.Collection(context.Background(), "ale")
	require.NoError(t, err)

	cold := &countingCollector{err: errors.New("must not be called")}
	got, err := NewCachedSource(cold, store, time.Minute).Collection(context.Background(), "ale")
	require.NoError(t, err)
	assert.Zero(t, cold.calls)
	require.Len(t, got, len(items))
	for i := range items {
		assert.Equal(t, string(items[i]), string(got[i]))
	}
}

func TestCachedSource_DiscardsUndecodableEntry(t *testing.T) {
	store := &memStore{data: map[string][]byte{cacheKey("ale"): []byte(`{"not":"an array"}`)}}
	next := &countingCollector{items: makeItems(2)}

	got, err := NewCachedSource(next, store, time.Minute).Collection(context.Background(), "ale")
	require.NoError(t, err)
	assert.Equal(t, next.items, got)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, 1, store.setHits)
}

func TestCachedSource_StoreFailureFallsThrough(t *testing.T) {
	next := &countingCollector{items: makeItems(3)}
	src := NewCachedSource(next, &memStore{getErr: errors.New("connection refused")}, time.Minute)

	got, err := src.Window(context.Background(), "ale", Window{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 1, next.calls)
}

func TestCachedSource_UpstreamErrorNotCached(t *testing.T) {
	next := &countingCollector{err: ErrUpstreamStatus}
	store := &memStore{}
	src := NewCachedSource(next, store, time.Minute)

	_, err := src.Window(context.Background(), "ale", Window{Limit: 10})
	assert.ErrorIs(t, err, ErrUpstreamStatus)
	assert.Zero(t, store.setHits)
}

func TestRecordRoundTrip(t *testing.T) {
	item := json.RawMessage(`{"id":9, "name":"Imperial","rating":{"average":4.2,"reviews":31,"stars":5},"abv":"9%"}`)
	rec := recordFromItem("stouts", 4, item)
	assert.Equal(t, "stouts", rec.Category)
	assert.Equal(t, 4, rec.Position)
	assert.Equal(t, string(item), string(rec.item()))
}
