package search

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Engine scores documents by scanning them. It needs no index and serves
// as the fallback when bleve is unavailable.
type Engine struct {
	mu   sync.RWMutex
	docs []Doc
}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Index(docs []Doc) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.docs = append(e.docs, docs...)
	return nil
}

func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.docs = nil
	return nil
}

func (e *Engine) DocCount() (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.docs), nil
}

func (e *Engine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}
	terms := tokenize(query)
	if len(terms) == 0 {
		return []*Result{}, nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var results []*Result
	for _, doc := range e.docs {
		if r := searchDoc(doc, terms); r != nil {
			results = append(results, r)
		}
	}

	// Stable so equal scores keep grid order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func searchDoc(doc Doc, terms []string) *Result {
	var matches []Match
	var total float64

	for _, field := range []struct {
		name   string
		text   string
		weight float64
	}{
		{"title", doc.Title, 4.0},
		{"cast", doc.Cast, 2.0},
		{"remarks", doc.Remarks, 1.5},
		{"type", doc.Type, 1.0},
		{"year", doc.Year, 1.0},
		{"source", doc.Source, 0.5},
	} {
		if score := scoreField(field.text, terms, field.weight); score > 0 {
			matches = append(matches, Match{Field: field.name, Text: truncate(field.text, 100), Weight: score})
			total += score
		}
	}

	if total == 0 {
		return nil
	}
	return &Result{Card: doc.Card, Title: doc.Title, Score: total, Matches: matches}
}

func scoreField(text string, terms []string, weight float64) float64 {
	if text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var score float64
	matched := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			score += 2.0
			matched++
		}
		for _, word := range words {
			switch {
			case word == term:
				score += 1.5
				matched++
			case strings.HasPrefix(word, term) || strings.HasSuffix(word, term):
				score += 1.0
				matched++
			case strings.Contains(word, term):
				score += 0.5
				matched++
			}
		}
	}
	if matched == 0 {
		return 0
	}

	if len(terms) > 1 && matched > 1 {
		score *= 1.0 + float64(matched)/float64(len(terms))
	}
	tf := float64(matched) / float64(len(words))
	score *= 1.0 + math.Log(1.0+tf)

	return score * weight
}

// tokenize lowercases text and splits it on anything that is not a letter
// or digit. Single-byte tokens are dropped.
func tokenize(text string) []string {
	var terms []string
	var current strings.Builder

	flush := func() {
		if term := current.String(); len(term) > 1 {
			terms = append(terms, term)
		}
		current.Reset()
	}
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			flush()
		}
	}
	flush()
	return terms
}

func truncate(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	return string(r[:maxLen-1]) + "…"
}
