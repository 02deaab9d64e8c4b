// Package search implements the weighted full-text index over the
// flattened search corpus. Normalization happens once at index build
// time; queries then run substring matching against the precomputed
// strings, so partial words match ("Lief" finds "Lieferant").
package search

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/julianshen/atlas/internal/atlas"
	"github.com/julianshen/atlas/internal/slug"
)

// Per-field match weights, applied once per query token that appears
// as a substring of the field.
const (
	WeightTitle       = 0.5
	WeightSubtitle    = 0.2
	WeightDescription = 0.2
	WeightKeywords    = 0.1
)

// maxTokenScore is the highest score a single token can contribute.
const maxTokenScore = WeightTitle + WeightSubtitle + WeightDescription + WeightKeywords

// indexedItem pairs a corpus item with its normalized field strings.
type indexedItem struct {
	item        atlas.SearchItem
	title       string
	subtitle    string
	description string
	keywords    []string
}

// Index is an immutable search index over one corpus snapshot.
type Index struct {
	items []indexedItem
}

// Result is one ranked hit. Score is a normalized 0..1 distance where
// 0 means best match; callers must not assume higher-is-better.
type Result struct {
	Item  atlas.SearchItem
	Score float64
}

// BuildIndex precomputes normalized field strings for every item.
// This is O(corpus) once, instead of O(corpus x queries) at search
// time.
func BuildIndex(items []atlas.SearchItem) *Index {
	indexed := make([]indexedItem, len(items))
	for i, item := range items {
		ii := indexedItem{
			item:        item,
			title:       normalize(item.Title),
			subtitle:    normalize(item.Subtitle),
			description: normalize(item.Description),
		}
		for _, kw := range item.Keywords {
			if n := normalize(kw); n != "" {
				ii.keywords = append(ii.keywords, n)
			}
		}
		indexed[i] = ii
	}
	return &Index{items: indexed}
}

// Len returns the corpus size.
func (ix *Index) Len() int {
	return len(ix.items)
}

// Search ranks the corpus against the query. An empty query returns
// the first limit items in original order, each with the neutral score
// 1, for the show-everything UI state. limit <= 0 means the full
// corpus.
func (ix *Index) Search(query string, limit int) []Result {
	if limit <= 0 || limit > len(ix.items) {
		limit = len(ix.items)
	}

	tokens := strings.Fields(normalize(query))
	if len(tokens) == 0 {
		results := make([]Result, 0, limit)
		for _, ii := range ix.items[:limit] {
			results = append(results, Result{Item: ii.item, Score: 1})
		}
		return results
	}

	type scored struct {
		ii  *indexedItem
		raw float64
	}

	var hits []scored
	for i := range ix.items {
		ii := &ix.items[i]
		raw := 0.0
		for _, tok := range tokens {
			raw += ii.tokenScore(tok)
		}
		if raw > 0 {
			hits = append(hits, scored{ii: ii, raw: raw})
		}
	}

	// Descending raw score; ties broken by German-collated title order.
	collator := collate.New(language.German)
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].raw != hits[j].raw {
			return hits[i].raw > hits[j].raw
		}
		return collator.CompareString(hits[i].ii.item.Title, hits[j].ii.item.Title) < 0
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}

	// Invert to a 0..1 distance so 0 is the best possible match.
	maxScore := maxTokenScore * float64(len(tokens))
	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{Item: h.ii.item, Score: clamp01(1 - h.raw/maxScore)}
	}
	return results
}

// tokenScore sums the field weights for one query token. Each field
// contributes at most once per token; keyword matching checks every
// keyword but also contributes at most once.
func (ii *indexedItem) tokenScore(tok string) float64 {
	score := 0.0
	if ii.title != "" && strings.Contains(ii.title, tok) {
		score += WeightTitle
	}
	if ii.subtitle != "" && strings.Contains(ii.subtitle, tok) {
		score += WeightSubtitle
	}
	if ii.description != "" && strings.Contains(ii.description, tok) {
		score += WeightDescription
	}
	for _, kw := range ii.keywords {
		if strings.Contains(kw, tok) {
			score += WeightKeywords
			break
		}
	}
	return score
}

// normalize lowercases, folds diacritics, strips non-alphanumerics to
// spaces and collapses whitespace runs.
func normalize(s string) string {
	folded := slug.Fold(s)
	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		default:
			pendingSpace = true
		}
	}
	return b.String()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
