package detail

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pders01/vodfall/internal/fetch"
	"github.com/pders01/vodfall/internal/source"
)

var (
	ErrNotFound  = errors.New("item not found")
	ErrNoOpener  = errors.New("no opener configured")
	ErrNoPlayURL = errors.New("item has no play URL")
)

// Page is a detail document ready for display.
type Page struct {
	Title    string
	Markdown string
	Episodes []Episode
}

// Shower is the detail view. detail is the source's detail site, empty
// when the source has none.
type Shower interface {
	ShowDetails(ctx context.Context, itemID, itemName, sourceCode, detail string) (*Page, error)
}

// Lookup finds a rendered item by source code and id.
type Lookup func(sourceCode, itemID string) (*fetch.Item, bool)

// Provider is the built-in Shower. It builds the page from the item already
// on screen.
type Provider struct {
	lookup Lookup
}

func NewProvider(lookup Lookup) *Provider {
	return &Provider{lookup: lookup}
}

func (p *Provider) ShowDetails(ctx context.Context, itemID, itemName, sourceCode, detail string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	item, ok := p.lookup(sourceCode, itemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, sourceCode, itemID)
	}
	return &Page{
		Title:    itemName,
		Markdown: Markdown(item, detail),
		Episodes: ParsePlayList(item.PlayFrom, item.PlayURL),
	}, nil
}

// Opener opens a URL outside the terminal.
type Opener interface {
	Open(url string) error
}

// Activation is what happened when a card was activated: either a detail
// page to show or a URL that was opened.
type Activation struct {
	Page   *Page
	Opened string
}

// Activator handles activation of a rendered item. With a Shower it asks
// for the detail page; without one it opens the watch page, even when the
// item has no play URL.
type Activator struct {
	shower    Shower
	opener    Opener
	watchPage string
}

func NewActivator(shower Shower, opener Opener, watchPage string) *Activator {
	return &Activator{shower: shower, opener: opener, watchPage: watchPage}
}

func (a *Activator) Activate(ctx context.Context, item *fetch.Item, src source.Source) (Activation, error) {
	if a.shower != nil {
		var detail string
		if src.HasDetail() {
			detail = src.Detail
		}
		page, err := a.shower.ShowDetails(ctx, item.ID.String(), item.Name, item.SourceCode, detail)
		if err != nil {
			return Activation{}, err
		}
		return Activation{Page: page}, nil
	}

	if a.opener == nil {
		return Activation{}, ErrNoOpener
	}
	target := WatchURL(a.watchPage, item.PlayURL, item.SourceCode)
	if err := a.opener.Open(target); err != nil {
		return Activation{}, fmt.Errorf("opening watch page: %w", err)
	}
	return Activation{Opened: target}, nil
}

// WatchURL appends the raw play URL and source code to the watch page as
// query parameters.
func WatchURL(watchPage, playURL, sourceCode string) string {
	sep := "?"
	if strings.Contains(watchPage, "?") {
		sep = "&"
	}
	return watchPage + sep + "url=" + url.QueryEscape(playURL) + "&source=" + url.QueryEscape(sourceCode)
}
