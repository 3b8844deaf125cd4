package detail

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/vodfall/internal/fetch"
	"github.com/pders01/vodfall/internal/source"
)

func TestParsePlayList(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		playURL  string
		expected []Episode
	}{
		{
			name:     "empty",
			expected: nil,
		},
		{
			name:    "single group",
			from:    "m3u8",
			playURL: "EP01$https://a.test/1.m3u8#EP02$https://a.test/2.m3u8",
			expected: []Episode{
				{Group: "m3u8", Name: "EP01", URL: "https://a.test/1.m3u8"},
				{Group: "m3u8", Name: "EP02", URL: "https://a.test/2.m3u8"},
			},
		},
		{
			name:    "two groups, missing names",
			from:    "hls$$$",
			playURL: "https://a.test/1.m3u8$$$HD$https://b.test/1.mp4#$https://b.test/2.mp4#",
			expected: []Episode{
				{Group: "hls", Name: "Episode 1", URL: "https://a.test/1.m3u8"},
				{Group: "Line 2", Name: "HD", URL: "https://b.test/1.mp4"},
				{Group: "Line 2", Name: "Episode 2", URL: "https://b.test/2.mp4"},
			},
		},
		{
			name:     "entries without url are skipped",
			playURL:  "Trailer$#Full$https://a.test/f.m3u8",
			expected: []Episode{{Group: "Line 1", Name: "Full", URL: "https://a.test/f.m3u8"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePlayList(tt.from, tt.playURL))
		})
	}
}

func TestMarkdown(t *testing.T) {
	item := &fetch.Item{
		ID:         "42",
		Name:       "The *Show*",
		TypeName:   "Drama",
		Year:       "2021",
		Remarks:    "Complete",
		Actor:      "A, B",
		Content:    "<p>A <b>bold</b> story.</p>",
		PlayFrom:   "hls",
		PlayURL:    "EP1$https://a.test/1.m3u8",
		SourceName: "Alpha",
		Pic:        "https://img.test/p.jpg",
	}

	md := Markdown(item, "http://alpha.test")
	assert.True(t, strings.HasPrefix(md, `# The \*Show\*`))
	assert.Contains(t, md, "- **Type:** Drama")
	assert.Contains(t, md, "- **Year:** 2021")
	assert.Contains(t, md, "- **Source:** Alpha")
	assert.Contains(t, md, "**bold**")
	assert.Contains(t, md, "### hls")
	assert.Contains(t, md, "`https://a.test/1.m3u8`")
	assert.Contains(t, md, "<https://img.test/p.jpg>")
	assert.Contains(t, md, "<http://alpha.test>")
	assert.NotContains(t, md, "Director")

	bare := Markdown(&fetch.Item{Name: "Bare"}, "")
	assert.Equal(t, "# Bare\n", bare)
}

func TestRenderer(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("# Title\n\nbody text\n", 80)
	require.NoError(t, err)
	plain := ansi.Strip(out)
	assert.Contains(t, plain, "Title")
	assert.Contains(t, plain, "body text")

	first := r.renderer
	_, err = r.Render("x", 84)
	require.NoError(t, err)
	assert.Same(t, first, r.renderer, "small width change keeps the renderer")
}

func TestWrapWidth(t *testing.T) {
	assert.Equal(t, 120, wrapWidth(300))
	assert.Equal(t, 72, wrapWidth(80))
	assert.Equal(t, 45, wrapWidth(50))
	assert.Equal(t, 36, wrapWidth(40))
	assert.Equal(t, 20, wrapWidth(10))
}

type recordingShower struct {
	args []string
}

func (s *recordingShower) ShowDetails(ctx context.Context, itemID, itemName, sourceCode, detail string) (*Page, error) {
	s.args = []string{itemID, itemName, sourceCode, detail}
	return &Page{Title: itemName}, nil
}

type recordingOpener struct {
	opened []string
	err    error
}

func (o *recordingOpener) Open(u string) error {
	o.opened = append(o.opened, u)
	return o.err
}

func TestActivator_UsesShower(t *testing.T) {
	item := &fetch.Item{ID: "7", Name: "Seven", SourceCode: "beta"}

	shower := &recordingShower{}
	a := NewActivator(shower, &recordingOpener{}, "../watch.html")

	act, err := a.Activate(context.Background(), item, source.Source{Code: "beta", Detail: "http://beta.test"})
	require.NoError(t, err)
	require.NotNil(t, act.Page)
	assert.Equal(t, []string{"7", "Seven", "beta", "http://beta.test"}, shower.args)

	_, err = a.Activate(context.Background(), item, source.Source{Code: "beta"})
	require.NoError(t, err)
	assert.Equal(t, "", shower.args[3], "detail omitted when the source has none")
}

func TestActivator_FallsBackToWatchPage(t *testing.T) {
	item := &fetch.Item{ID: "7", Name: "Seven", SourceCode: "custom_0", PlayURL: "EP1$https://a.test/1.m3u8"}
	opener := &recordingOpener{}
	a := NewActivator(nil, opener, "https://player.test/watch.html")

	act, err := a.Activate(context.Background(), item, source.Source{Code: "custom_0"})
	require.NoError(t, err)
	require.Len(t, opener.opened, 1)
	assert.Equal(t, act.Opened, opener.opened[0])

	u, err := url.Parse(act.Opened)
	require.NoError(t, err)
	assert.Equal(t, "/watch.html", u.Path)
	assert.Equal(t, "EP1$https://a.test/1.m3u8", u.Query().Get("url"))
	assert.Equal(t, "custom_0", u.Query().Get("source"))
}

func TestActivator_FallbackErrors(t *testing.T) {
	item := &fetch.Item{ID: "1", PlayURL: "u"}

	_, err := NewActivator(nil, nil, "w").Activate(context.Background(), item, source.Source{})
	assert.ErrorIs(t, err, ErrNoOpener)

	_, err = NewActivator(nil, &recordingOpener{err: errors.New("no browser")}, "w").Activate(context.Background(), item, source.Source{})
	assert.Error(t, err)
}

func TestActivator_EmptyPlayURLStillOpens(t *testing.T) {
	opener := &recordingOpener{}
	a := NewActivator(nil, opener, "https://player.test/watch.html")

	act, err := a.Activate(context.Background(), &fetch.Item{ID: "5", SourceCode: "alpha"}, source.Source{Code: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, "https://player.test/watch.html?url=&source=alpha", act.Opened)
	assert.Equal(t, []string{act.Opened}, opener.opened)
}

func TestWatchURL(t *testing.T) {
	assert.Equal(t, "w.html?url=a%26b&source=x", WatchURL("w.html", "a&b", "x"))
	assert.Equal(t, "w.html?lang=en&url=u&source=x", WatchURL("w.html?lang=en", "u", "x"))
}

func TestProvider(t *testing.T) {
	item := &fetch.Item{ID: "3", Name: "Three", SourceCode: "alpha", PlayURL: "E$https://a.test/e.m3u8"}
	p := NewProvider(func(code, id string) (*fetch.Item, bool) {
		if code == "alpha" && id == "3" {
			return item, true
		}
		return nil, false
	})

	page, err := p.ShowDetails(context.Background(), "3", "Three", "alpha", "")
	require.NoError(t, err)
	assert.Equal(t, "Three", page.Title)
	assert.Len(t, page.Episodes, 1)
	assert.Contains(t, page.Markdown, "# Three")

	_, err = p.ShowDetails(context.Background(), "9", "Nine", "alpha", "")
	assert.ErrorIs(t, err, ErrNotFound)
}
