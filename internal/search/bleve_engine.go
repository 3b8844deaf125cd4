package search

import (
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/lang/cjk"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"
)

const docPrefix = "card:"

// BleveEngine indexes grid cards in an in-memory bleve index.
type BleveEngine struct {
	mu  sync.RWMutex
	idx bleve.Index
}

// NewBleveEngine creates an in-memory index. The grid is rebuilt on every
// start so nothing is persisted.
func NewBleveEngine() (*BleveEngine, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}
	return &BleveEngine{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	// Titles are mostly CJK; bigrams make partial matches work.
	title := bleve.NewTextFieldMapping()
	title.Analyzer = cjk.AnalyzerName
	title.Store = true
	title.IncludeTermVectors = true

	titleWords := bleve.NewTextFieldMapping()
	titleWords.Analyzer = standard.Name
	titleWords.Store = false

	text := func() *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = standard.Name
		fm.Store = false
		return fm
	}

	card := bleve.NewNumericFieldMapping()
	card.Store = true
	card.Index = false

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("title_words", titleWords)
	dm.AddFieldMappingsAt("cast", text())
	dm.AddFieldMappingsAt("remarks", text())
	dm.AddFieldMappingsAt("type", text())
	dm.AddFieldMappingsAt("year", text())
	dm.AddFieldMappingsAt("source", text())
	dm.AddFieldMappingsAt("card", card)

	im.DefaultMapping = dm
	return im
}

func (b *BleveEngine) Index(docs []Doc) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	batch := b.idx.NewBatch()
	for _, d := range docs {
		if err := batch.Index(docID(d.Card), map[string]any{
			"card":        float64(d.Card),
			"title":       d.Title,
			"title_words": d.Title,
			"cast":        d.Cast,
			"remarks":     d.Remarks,
			"type":        d.Type,
			"year":        d.Year,
			"source":      d.Source,
		}); err != nil {
			return err
		}
	}
	return b.idx.Batch(batch)
}

func (b *BleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	var qs []bleveQuery.Query

	qt := bleve.NewMatchQuery(query)
	qt.SetField("title")
	qt.SetBoost(4.0)
	qs = append(qs, qt)

	for _, tok := range tokenize(query) {
		for _, f := range []struct {
			field string
			boost float64
		}{
			{"title_words", 3.5},
			{"cast", 2.0},
			{"remarks", 1.5},
			{"type", 1.0},
			{"year", 1.0},
			{"source", 0.5},
		} {
			qm := bleve.NewMatchQuery(tok)
			qm.SetField(f.field)
			qm.SetBoost(f.boost)
			qs = append(qs, qm)

			qp := bleve.NewPrefixQuery(tok)
			qp.SetField(f.field)
			qp.SetBoost(f.boost * 0.8)
			qs = append(qs, qp)
		}
	}

	q := bleve.NewDisjunctionQuery(qs...)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"title", "card"}

	b.mu.RLock()
	res, err := b.idx.Search(req)
	b.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		card, ok := cardFromID(h.ID)
		if !ok {
			continue
		}
		r := &Result{Card: card, Score: h.Score}
		if t, ok := h.Fields["title"].(string); ok {
			r.Title = t
		}
		out = append(out, r)
	}
	return out, nil
}

// Reset drops every document by swapping in a fresh index.
func (b *BleveEngine) Reset() error {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return err
	}

	b.mu.Lock()
	old := b.idx
	b.idx = idx
	b.mu.Unlock()
	return old.Close()
}

func (b *BleveEngine) DocCount() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n, err := b.idx.DocCount()
	return int(n), err
}

func docID(card int) string { return docPrefix + strconv.Itoa(card) }

func cardFromID(id string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(id, docPrefix))
	return n, err == nil && strings.HasPrefix(id, docPrefix)
}
