package enrich

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/julianshen/atlas/internal/atlas"
)

const (
	// maxCacheSize bounds the in-memory record cache. The store may
	// hold far more records than relevance filtering needs; the bound
	// trades completeness for predictable latency and memory.
	maxCacheSize = 1024

	// pageSize is the scroll page size used during the initial load.
	pageSize = 256

	// DefaultLimit is the number of references returned per term when
	// the caller does not specify one.
	DefaultLimit = 3
)

// Enricher filters a single process-wide record cache by substring
// match. The cache is populated by one paginated scroll on first use;
// no further network calls happen afterwards. Construct one per
// pipeline run and inject it where needed.
type Enricher struct {
	store Store

	once  sync.Once
	cache []Record
}

// New creates an Enricher backed by the given store. A nil store
// disables enrichment: every lookup returns an empty list.
func New(store Store) *Enricher {
	return &Enricher{store: store}
}

// FetchReferences returns up to limit references whose title, text or
// keywords contain the term, case-insensitively. The first call
// populates the cache; concurrent callers block on that single flight.
// Store failures are logged once and degrade to empty results for the
// remainder of the run.
func (e *Enricher) FetchReferences(ctx context.Context, term string, limit int) []atlas.ContextReference {
	if e.store == nil {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	e.once.Do(func() { e.load(ctx) })

	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil
	}

	var refs []atlas.ContextReference
	for _, rec := range e.cache {
		if !matches(rec, needle) {
			continue
		}
		refs = append(refs, atlas.ContextReference{
			Title:    rec.Title,
			Text:     rec.Text,
			URL:      rec.URL,
			Keywords: rec.Keywords,
		})
		if len(refs) >= limit {
			break
		}
	}
	return refs
}

// load scrolls through the store until the cache bound is reached or
// the store reports no further pages. Partial results from a failed
// scroll are kept.
func (e *Enricher) load(ctx context.Context) {
	var offset []byte
	for len(e.cache) < maxCacheSize {
		records, next, err := e.store.Scroll(ctx, pageSize, offset)
		if err != nil {
			log.Printf("WARNING: reference store unavailable, continuing without enrichment: %v", err)
			return
		}

		e.cache = append(e.cache, records...)
		if next == nil || len(records) == 0 {
			break
		}
		offset = next
	}

	if len(e.cache) > maxCacheSize {
		e.cache = e.cache[:maxCacheSize]
	}
}

func matches(rec Record, needle string) bool {
	if strings.Contains(strings.ToLower(rec.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Text), needle) {
		return true
	}
	for _, kw := range rec.Keywords {
		if strings.Contains(strings.ToLower(kw), needle) {
			return true
		}
	}
	return false
}
