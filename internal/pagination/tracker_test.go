package pagination

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/vodfall/internal/fetch"
	"github.com/pders01/vodfall/internal/source"
)

var (
	srcX = source.Source{Name: "X", Code: "x"}
	srcY = source.Source{Name: "Y", Code: "y"}
)

func page(src source.Source, n int, items int, pageCount fetch.FlexInt) fetch.Outcome {
	list := make([]*fetch.Item, items)
	for i := range list {
		list[i] = &fetch.Item{Name: "item"}
	}
	return fetch.Outcome{
		Source: src,
		Page:   n,
		Data:   &fetch.Response{List: &list, PageCount: pageCount},
	}
}

func TestTracker_Initialize(t *testing.T) {
	tr := NewTracker()
	tr.Initialize([]source.Source{srcX, srcY})

	for _, name := range []string{"X", "Y"} {
		state, ok := tr.State(name)
		require.True(t, ok)
		assert.Equal(t, PageState{Page: 1}, state)
	}

	tr.Record(page(srcX, 2, 0, fetch.FlexInt{}))
	tr.Initialize([]source.Source{srcY})
	_, ok := tr.State("X")
	assert.False(t, ok, "initialize drops previous sources")
}

func TestTracker_Record(t *testing.T) {
	tests := []struct {
		name     string
		startAt  int
		outcome  fetch.Outcome
		expected PageState
	}{
		{
			name:     "empty list ends and keeps page",
			startAt:  3,
			outcome:  page(srcX, 4, 0, fetch.FlexInt{}),
			expected: PageState{Page: 3, Ended: true},
		},
		{
			name:     "error ends and keeps page",
			startAt:  2,
			outcome:  fetch.Outcome{Source: srcX, Page: 3, Err: errors.New("boom")},
			expected: PageState{Page: 2, Ended: true},
		},
		{
			name:     "nil data ends",
			startAt:  1,
			outcome:  fetch.Outcome{Source: srcX, Page: 2},
			expected: PageState{Page: 1, Ended: true},
		},
		{
			name:     "last page by pagecount",
			startAt:  1,
			outcome:  page(srcX, 2, 5, fetch.FlexInt{Value: 2, Valid: true}),
			expected: PageState{Page: 2, Ended: true},
		},
		{
			name:     "beyond pagecount",
			startAt:  1,
			outcome:  page(srcX, 3, 5, fetch.FlexInt{Value: 2, Valid: true}),
			expected: PageState{Page: 3, Ended: true},
		},
		{
			name:     "more pages remain",
			startAt:  1,
			outcome:  page(srcX, 2, 5, fetch.FlexInt{Value: 9, Valid: true}),
			expected: PageState{Page: 2},
		},
		{
			name:     "no pagecount",
			startAt:  1,
			outcome:  page(srcX, 1, 20, fetch.FlexInt{}),
			expected: PageState{Page: 1},
		},
		{
			name:     "zero pagecount is ignored",
			startAt:  1,
			outcome:  page(srcX, 5, 1, fetch.FlexInt{Value: 0, Valid: true}),
			expected: PageState{Page: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker()
			tr.Initialize([]source.Source{srcX})
			if tt.startAt > 1 {
				tr.Record(page(srcX, tt.startAt, 1, fetch.FlexInt{}))
			}

			tr.Record(tt.outcome)

			state, ok := tr.State("X")
			require.True(t, ok)
			assert.Equal(t, tt.expected, state)
		})
	}
}

func TestTracker_AllEndedAndActive(t *testing.T) {
	tr := NewTracker()
	sources := []source.Source{srcX, srcY}

	assert.True(t, tr.AllEnded(nil), "no sources is vacuously ended")
	assert.False(t, tr.AllEnded(sources), "unknown sources are not ended")

	tr.Initialize(sources)
	assert.False(t, tr.AllEnded(sources))
	assert.Equal(t, sources, tr.Active(sources))

	tr.Record(page(srcY, 1, 0, fetch.FlexInt{}))
	assert.False(t, tr.AllEnded(sources))
	assert.Equal(t, []source.Source{srcX}, tr.Active(sources))

	tr.Record(fetch.Outcome{Source: srcX, Page: 2, Err: errors.New("timeout")})
	assert.True(t, tr.AllEnded(sources))
	assert.Empty(t, tr.Active(sources))
}

func TestTracker_EndAll(t *testing.T) {
	tr := NewTracker()
	tr.Initialize([]source.Source{srcX})
	tr.Record(page(srcX, 2, 3, fetch.FlexInt{}))

	tr.EndAll([]source.Source{srcX, srcY})

	x, _ := tr.State("X")
	assert.Equal(t, PageState{Page: 2, Ended: true}, x)
	y, ok := tr.State("Y")
	require.True(t, ok)
	assert.Equal(t, PageState{Page: 1, Ended: true}, y)
	assert.True(t, tr.AllEnded([]source.Source{srcX, srcY}))
	assert.Empty(t, tr.Active([]source.Source{srcX, srcY}))
}
