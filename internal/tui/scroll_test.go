package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScroll_StaleTickDropped(t *testing.T) {
	f := &pagedFetcher{perPage: 2, pageCount: 5}
	app, _ := newTestApp(t, nil, testSources, f)
	loadInitial(t, app)

	app.scheduleScrollCheck()
	stale := app.scrollSeq
	app.scheduleScrollCheck()

	assert.Nil(t, app.handleScrollCheck(scrollCheckMsg{seq: stale}))
	assert.False(t, app.loading)
}

func TestScroll_NearBottomTriggersLoadMore(t *testing.T) {
	f := &pagedFetcher{perPage: 2, pageCount: 5}
	app, _ := newTestApp(t, nil, testSources, f)
	loadInitial(t, app)
	require.True(t, app.nearBottom(), "short grid is always near the bottom")

	app.scheduleScrollCheck()
	cmd := app.handleScrollCheck(scrollCheckMsg{seq: app.scrollSeq})
	require.NotNil(t, cmd)
	assert.True(t, app.loading)
}

func TestScroll_InFlightSuppressesTrigger(t *testing.T) {
	f := &pagedFetcher{perPage: 2, pageCount: 5}
	app, _ := newTestApp(t, nil, testSources, f)
	loadInitial(t, app)
	app.loading = true

	app.scheduleScrollCheck()
	assert.Nil(t, app.handleScrollCheck(scrollCheckMsg{seq: app.scrollSeq}))
}

func TestScroll_FarFromBottomDoesNothing(t *testing.T) {
	f := &pagedFetcher{perPage: 40, pageCount: 5}
	app, _ := newTestApp(t, nil, testSources, f)
	loadInitial(t, app)
	require.Greater(t, app.remainingLines(), app.config.Scroll.Threshold)

	app.scheduleScrollCheck()
	assert.Nil(t, app.handleScrollCheck(scrollCheckMsg{seq: app.scrollSeq}))
	assert.False(t, app.loading)

	app.viewport.GotoBottom()
	app.scheduleScrollCheck()
	assert.NotNil(t, app.handleScrollCheck(scrollCheckMsg{seq: app.scrollSeq}))
}

func TestScroll_ExhaustedSurfacesState(t *testing.T) {
	f := &pagedFetcher{perPage: 2, pageCount: 1}
	app, _ := newTestApp(t, nil, testSources, f)
	loadInitial(t, app)
	app.exhausted = true
	calls := f.callCount()

	app.scheduleScrollCheck()
	app.handleScrollCheck(scrollCheckMsg{seq: app.scrollSeq})
	assert.Equal(t, MsgExhausted, app.Status())
	assert.Equal(t, calls, f.callCount())
	assert.False(t, app.loading)
}

func TestScroll_SelectionStaysVisible(t *testing.T) {
	f := &pagedFetcher{perPage: 40, pageCount: 5}
	app, _ := newTestApp(t, nil, testSources, f)
	loadInitial(t, app)

	last := app.grid.Len() - 1
	app.selectCard(last)

	card, ok := app.grid.CardAt(last)
	require.True(t, ok)
	assert.GreaterOrEqual(t, card.Top+card.Height, app.viewport.YOffset)
	assert.LessOrEqual(t, card.Top+card.Height, app.viewport.YOffset+app.viewport.Height)
}
