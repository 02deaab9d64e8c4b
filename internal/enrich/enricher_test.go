package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore serves pre-paged records and counts scroll calls.
type fakeStore struct {
	pages [][]Record
	err   error
	calls atomic.Int64
}

func (f *fakeStore) Scroll(_ context.Context, _ int, offset json.RawMessage) ([]Record, json.RawMessage, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, nil, f.err
	}

	// Offsets are opaque to the enricher; here they are page indices.
	page := 0
	if offset != nil {
		if err := json.Unmarshal(offset, &page); err != nil {
			return nil, nil, err
		}
	}
	if page >= len(f.pages) {
		return nil, nil, nil
	}

	var next json.RawMessage
	if page+1 < len(f.pages) {
		next = json.RawMessage(fmt.Sprintf("%d", page+1))
	}
	return f.pages[page], next, nil
}

func records(prefix string, n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{Title: fmt.Sprintf("%s %d", prefix, i)}
	}
	return out
}

func TestFetchReferencesFiltersAllFields(t *testing.T) {
	store := &fakeStore{pages: [][]Record{{
		{Title: "Lieferantenwechsel im Detail", URL: "https://example.org/lw"},
		{Title: "Anderes Thema", Text: "Der LIEFERANTENWECHSEL dauert drei Wochen."},
		{Title: "Tags only", Keywords: []string{"lieferantenwechsel", "utilmd"}},
		{Title: "Unrelated", Text: "Netzentgelte"},
	}}}
	e := New(store)

	refs := e.FetchReferences(context.Background(), "Lieferantenwechsel", 10)
	require.Len(t, refs, 3)
	assert.Equal(t, "https://example.org/lw", refs[0].URL)
}

func TestFetchReferencesDefaultLimit(t *testing.T) {
	store := &fakeStore{pages: [][]Record{records("Lieferant", 10)}}
	e := New(store)

	refs := e.FetchReferences(context.Background(), "lieferant", 0)
	assert.Len(t, refs, DefaultLimit)
}

func TestFetchReferencesSingleFlight(t *testing.T) {
	store := &fakeStore{pages: [][]Record{records("Messwert", 5)}}
	e := New(store)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.FetchReferences(context.Background(), "messwert", 2)
		}()
	}
	wg.Wait()

	// One page, loaded exactly once regardless of caller count.
	assert.Equal(t, int64(1), store.calls.Load())
}

func TestFetchReferencesCacheBound(t *testing.T) {
	// Six full pages exceed the cache bound; loading stops after the
	// bound is reached instead of scrolling the whole collection.
	store := &fakeStore{pages: [][]Record{
		records("a", pageSize),
		records("b", pageSize),
		records("c", pageSize),
		records("d", pageSize),
		records("e", pageSize),
		records("f", pageSize),
	}}
	e := New(store)

	e.FetchReferences(context.Background(), "a", 1)
	assert.Len(t, e.cache, maxCacheSize)
	assert.Equal(t, int64(maxCacheSize/pageSize), store.calls.Load())
}

func TestFetchReferencesStoreFailureDegrades(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	e := New(store)

	assert.Empty(t, e.FetchReferences(context.Background(), "term", 3))
	assert.Empty(t, e.FetchReferences(context.Background(), "other", 3))
	// The failed load is not retried.
	assert.Equal(t, int64(1), store.calls.Load())
}

func TestFetchReferencesNilStore(t *testing.T) {
	e := New(nil)
	assert.Nil(t, e.FetchReferences(context.Background(), "term", 3))
}

func TestFetchReferencesEmptyTerm(t *testing.T) {
	store := &fakeStore{pages: [][]Record{records("x", 3)}}
	e := New(store)
	assert.Nil(t, e.FetchReferences(context.Background(), "   ", 3))
}
