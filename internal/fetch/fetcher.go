package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pders01/vodfall/internal/config"
	"github.com/pders01/vodfall/internal/debuglog"
	"github.com/pders01/vodfall/internal/source"
)

// ErrInvalidResponse marks a body that is not JSON or has no list field.
var ErrInvalidResponse = errors.New("invalid API response")

const maxBodyBytes = 16 << 20

// Fetcher requests one page of search results from a source through the proxy.
type Fetcher struct {
	client     *http.Client
	proxyURL   string
	searchPath string
	query      string
	headers    map[string]string
	limiter    *rate.Limiter
}

func NewFetcher(cfg *config.Config) *Fetcher {
	f := &Fetcher{
		// Zero timeout means none: a hung request stalls only its own round
		client:     &http.Client{Timeout: cfg.Proxy.HTTPTimeout},
		proxyURL:   cfg.Proxy.URL,
		searchPath: cfg.Search.Path,
		query:      cfg.Search.Query,
		headers:    cfg.Proxy.Headers,
	}
	if cfg.Proxy.RateLimit > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(cfg.Proxy.RateLimit), 1)
	}
	return f
}

// SearchURL is the upstream URL for page of src, before proxying.
func (f *Fetcher) SearchURL(src source.Source, page int) string {
	return src.API + f.searchPath + escapeComponent(f.query) + "&pg=" + strconv.Itoa(page)
}

// RequestURL is the URL actually requested: the proxy base followed by the
// escaped search URL.
func (f *Fetcher) RequestURL(src source.Source, page int) string {
	return f.proxyURL + escapeComponent(f.SearchURL(src, page))
}

// FetchPage never returns an error to the caller; failures come back in
// Outcome.Err with Data nil, so a fan-out over many sources cannot be cut
// short by one of them.
func (f *Fetcher) FetchPage(ctx context.Context, src source.Source, page int) Outcome {
	log := debuglog.WithFields(map[string]interface{}{"source": src.Name, "page": page})

	data, err := f.fetch(ctx, src, page)
	if err != nil {
		log.Warnf("fetch failed: %v", err)
		return Outcome{Source: src, Page: page, Err: err}
	}

	tagItems(data, src)
	log.Debugf("fetched %d items", len(data.Items()))
	return Outcome{Source: src, Data: data, Page: page}
}

func (f *Fetcher) fetch(ctx context.Context, src source.Source, page int) (*Response, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.RequestURL(src, page), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for name, value := range f.headers {
		req.Header.Set(name, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return decodeResponse(body)
}

func decodeResponse(body []byte) (*Response, error) {
	var data Response
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if data.List == nil {
		return nil, fmt.Errorf("%w: missing list", ErrInvalidResponse)
	}
	return &data, nil
}

// tagItems drops null entries and stamps every item with its owning source.
func tagItems(data *Response, src source.Source) {
	items := data.Items()
	kept := items[:0]
	for _, item := range items {
		if item == nil {
			continue
		}
		item.SourceName = src.Name
		item.SourceCode = src.Code
		kept = append(kept, item)
	}
	*data.List = kept
}

// escapeComponent escapes s for use inside a URL component, with spaces as
// %20 rather than '+'.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
