package plugins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pders01/vodfall/internal/debuglog"
)

// ErrNotMacCMS means none of the known API paths answered like a MacCMS
// video API.
var ErrNotMacCMS = errors.New("no MacCMS API found")

// apiPaths are tried in order below the site root.
var apiPaths = []string{
	"/api.php/provide/vod/",
	"/api.php/provide/vod/at/json/",
}

const probeLimit = 1 << 20

// MacCMSPlugin resolves a bare site URL to its MacCMS search API by probing
// the well-known endpoints.
type MacCMSPlugin struct{}

func NewMacCMSPlugin() *MacCMSPlugin {
	return &MacCMSPlugin{}
}

func (p *MacCMSPlugin) Name() string {
	return "maccms"
}

// CanHandle accepts http(s) URLs that do not already point at an API path.
func (p *MacCMSPlugin) CanHandle(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	return !strings.Contains(u.Path, "/api.php/")
}

func (p *MacCMSPlugin) Priority() int {
	return 10
}

func (p *MacCMSPlugin) Resolve(ctx context.Context, rawURL string, client *http.Client) (*SourceInfo, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}
	root := u.Scheme + "://" + u.Host

	for _, path := range apiPaths {
		api := root + path
		if err := probe(ctx, client, api); err != nil {
			debuglog.Debugf("maccms probe %s: %v", api, err)
			continue
		}
		return &SourceInfo{
			OriginalURL: rawURL,
			APIURL:      api,
			DetailURL:   root,
			Name:        u.Hostname(),
			Metadata: map[string]string{
				"plugin": p.Name(),
				"path":   path,
			},
		}, nil
	}
	return nil, fmt.Errorf("%w at %s", ErrNotMacCMS, root)
}

// probe asks for the category list, which every MacCMS API serves without
// a query.
func probe(ctx context.Context, client *http.Client, api string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, api+"?ac=list", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, probeLimit))
	if err != nil {
		return err
	}

	var payload struct {
		List  json.RawMessage `json:"list"`
		Class json.RawMessage `json:"class"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("not JSON: %w", err)
	}
	if payload.List == nil && payload.Class == nil {
		return errors.New("missing list and class")
	}
	return nil
}
