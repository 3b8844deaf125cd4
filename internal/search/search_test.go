package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDocs = []Doc{
	{Card: 0, Title: "Golden Hour", Type: "Drama", Year: "2021", Remarks: "Complete", Source: "Alpha"},
	{Card: 1, Title: "Night Market", Type: "Documentary", Year: "2019", Cast: "Jane Goldenberg", Source: "Beta"},
	{Card: 2, Title: "流浪地球", Type: "Sci-Fi", Year: "2019", Source: "Alpha"},
	{Card: 3, Title: "Harbor Lights", Type: "Drama", Year: "2020", Remarks: "HD", Source: "Beta"},
}

func searchers(t *testing.T) map[string]Searcher {
	t.Helper()
	be, err := NewBleveEngine()
	require.NoError(t, err)
	t.Cleanup(func() { _ = be.idx.Close() })
	return map[string]Searcher{"bleve": be, "scan": NewEngine()}
}

func cards(results []*Result) []int {
	out := make([]int, len(results))
	for i, r := range results {
		out[i] = r.Card
	}
	return out
}

func TestSearchers(t *testing.T) {
	for name, s := range searchers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Index(testDocs))

			res, err := s.Search("golden", 10)
			require.NoError(t, err)
			require.NotEmpty(t, res)
			assert.Equal(t, 0, res[0].Card, "title match ranks first")
			assert.Contains(t, cards(res), 1, "prefix match on cast")

			res, err = s.Search("harbor", 10)
			require.NoError(t, err)
			assert.Equal(t, []int{3}, cards(res))

			res, err = s.Search("流浪", 10)
			require.NoError(t, err)
			assert.Equal(t, []int{2}, cards(res))

			res, err = s.Search("zzzz", 10)
			require.NoError(t, err)
			assert.Empty(t, res)

			require.NoError(t, s.Reset())
			res, err = s.Search("golden", 10)
			require.NoError(t, err)
			assert.Empty(t, res)
		})
	}
}

func TestSearchers_ShortQueries(t *testing.T) {
	for name, s := range searchers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Index(testDocs))
			for _, q := range []string{"", "a", "   "} {
				res, err := s.Search(q, 10)
				assert.NoError(t, err)
				assert.NotNil(t, res)
				assert.Empty(t, res)
			}
		})
	}
}

func TestDocCount(t *testing.T) {
	for name, s := range searchers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Index(testDocs[:2]))
			require.NoError(t, s.Index(testDocs[2:]))
			n, err := s.(DebugStatser).DocCount()
			require.NoError(t, err)
			assert.Equal(t, 4, n)
		})
	}
}

func TestEngine_Limit(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Index(testDocs))
	res, err := e.Search("drama", 1)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello", "world", "42"}, tokenize("Hello, World! 42 a"))
	assert.Equal(t, []string{"流浪地球"}, tokenize("流浪地球"))
	assert.Empty(t, tokenize("a b c"))
}

func TestNew(t *testing.T) {
	s := New()
	require.NotNil(t, s)
	_, ok := s.(*BleveEngine)
	assert.True(t, ok)
}

func TestCardFromID(t *testing.T) {
	n, ok := cardFromID(docID(12))
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	_, ok = cardFromID("feed:1")
	assert.False(t, ok)
}
