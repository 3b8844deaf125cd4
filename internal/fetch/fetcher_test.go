package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/vodfall/internal/config"
	"github.com/pders01/vodfall/internal/source"
)

var testSource = source.Source{Name: "Alpha", API: "http://alpha.test/api.php/provide/vod/", Code: "alpha"}

// newProxy starts a server that behaves like the proxy: the target URL comes
// in the "u" query parameter and respond decides what the upstream returns.
func newProxy(t *testing.T, respond func(w http.ResponseWriter, target *url.URL)) (*httptest.Server, *config.Config) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target, err := url.Parse(r.URL.Query().Get("u"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		respond(w, target)
	}))
	t.Cleanup(server.Close)

	cfg := config.TestConfig()
	cfg.Proxy.URL = server.URL + "/?u="
	return server, cfg
}

func TestFetcher_URLs(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Proxy.URL = "https://proxy.example.com/p/"
	cfg.Search.Query = "hello world"
	f := NewFetcher(cfg)

	assert.Equal(t, "http://alpha.test/api.php/provide/vod/?ac=videolist&wd=hello%20world&pg=3", f.SearchURL(testSource, 3))
	assert.Equal(t,
		"https://proxy.example.com/p/"+escapeComponent("http://alpha.test/api.php/provide/vod/?ac=videolist&wd=hello%20world&pg=3"),
		f.RequestURL(testSource, 3))
}

func TestFetcher_FetchPage(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		status       int
		expectErr    bool
		expectInvalid bool
		expectItems  int
		pageCount    FlexInt
	}{
		{
			name:        "list with numeric pagination",
			body:        `{"code":1,"page":2,"pagecount":5,"list":[{"vod_id":1,"vod_name":"One"},{"vod_id":"2","vod_name":"Two"}]}`,
			status:      http.StatusOK,
			expectItems: 2,
			pageCount:   FlexInt{Value: 5, Valid: true},
		},
		{
			name:        "string pagination",
			body:        `{"page":"1","pagecount":"3","list":[{"vod_id":9,"vod_name":"Nine"}]}`,
			status:      http.StatusOK,
			expectItems: 1,
			pageCount:   FlexInt{Value: 3, Valid: true},
		},
		{
			name:        "empty list without pagination",
			body:        `{"list":[]}`,
			status:      http.StatusOK,
			expectItems: 0,
		},
		{
			name:        "null entries are dropped",
			body:        `{"list":[null,{"vod_id":1,"vod_name":"One"},null]}`,
			status:      http.StatusOK,
			expectItems: 1,
		},
		{
			name:         "missing list",
			body:         `{"code":0,"msg":"blocked"}`,
			status:       http.StatusOK,
			expectErr:    true,
			expectInvalid: true,
		},
		{
			name:         "not json",
			body:         `<html>captcha</html>`,
			status:       http.StatusOK,
			expectErr:    true,
			expectInvalid: true,
		},
		{
			name:      "not modified",
			status:    http.StatusNotModified,
			expectErr: true,
		},
		{
			name:      "server error",
			body:      `{"list":[]}`,
			status:    http.StatusBadGateway,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cfg := newProxy(t, func(w http.ResponseWriter, target *url.URL) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			out := NewFetcher(cfg).FetchPage(context.Background(), testSource, 2)

			assert.Equal(t, testSource, out.Source)
			assert.Equal(t, 2, out.Page)
			if tt.expectErr {
				require.Error(t, out.Err)
				assert.Nil(t, out.Data)
				assert.True(t, out.Empty())
				assert.Equal(t, tt.expectInvalid, errors.Is(out.Err, ErrInvalidResponse))
				return
			}

			require.NoError(t, out.Err)
			require.NotNil(t, out.Data)
			assert.Len(t, out.Data.Items(), tt.expectItems)
			assert.Equal(t, tt.pageCount, out.Data.PageCount)
			for _, item := range out.Data.Items() {
				assert.Equal(t, "Alpha", item.SourceName)
				assert.Equal(t, "alpha", item.SourceCode)
			}
		})
	}
}

func TestFetcher_SendsTargetAndHeaders(t *testing.T) {
	var gotTarget *url.URL
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTarget, _ = url.Parse(r.URL.Query().Get("u"))
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"list":[]}`))
	}))
	defer server.Close()

	cfg := config.TestConfig()
	cfg.Proxy.URL = server.URL + "/?u="

	out := NewFetcher(cfg).FetchPage(context.Background(), testSource, 4)
	require.NoError(t, out.Err)

	require.NotNil(t, gotTarget)
	assert.Equal(t, "alpha.test", gotTarget.Host)
	assert.Equal(t, "videolist", gotTarget.Query().Get("ac"))
	assert.Equal(t, "4", gotTarget.Query().Get("pg"))
	assert.Equal(t, "vodfall-test/1.0", gotAgent)
}

func TestFetcher_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	cfg := config.TestConfig()
	cfg.Proxy.URL = server.URL + "/?u="
	server.Close()

	out := NewFetcher(cfg).FetchPage(context.Background(), testSource, 1)
	require.Error(t, out.Err)
	assert.False(t, errors.Is(out.Err, ErrInvalidResponse))
	assert.Nil(t, out.Data)
}

func TestFetcher_CanceledContext(t *testing.T) {
	_, cfg := newProxy(t, func(w http.ResponseWriter, target *url.URL) {
		w.Write([]byte(`{"list":[{"vod_id":1,"vod_name":"x"}]}`))
	})
	cfg.Proxy.RateLimit = 1

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := NewFetcher(cfg).FetchPage(ctx, testSource, 1)
	assert.Error(t, out.Err)
	assert.True(t, out.Empty())
}

func TestFetcher_RateLimitedStillFetches(t *testing.T) {
	calls := 0
	_, cfg := newProxy(t, func(w http.ResponseWriter, target *url.URL) {
		calls++
		w.Write([]byte(`{"list":[{"vod_id":1,"vod_name":"x"}]}`))
	})
	cfg.Proxy.RateLimit = 100

	f := NewFetcher(cfg)
	require.NotNil(t, f.limiter)
	for page := 1; page <= 3; page++ {
		out := f.FetchPage(context.Background(), testSource, page)
		require.NoError(t, out.Err)
	}
	assert.Equal(t, 3, calls)
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		in   string
		want FlexInt
	}{
		{`3`, FlexInt{Value: 3, Valid: true}},
		{`"7"`, FlexInt{Value: 7, Valid: true}},
		{`2.0`, FlexInt{Value: 2, Valid: true}},
		{`null`, FlexInt{}},
		{`""`, FlexInt{}},
		{`"abc"`, FlexInt{}},
	}
	for _, tt := range tests {
		var got FlexInt
		require.NoError(t, got.UnmarshalJSON([]byte(tt.in)), tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestDecodeResponse_LooseItemFields(t *testing.T) {
	body := `{"list":[
		{"vod_id":2,"vod_name":2046,"vod_remarks":12,"type_name":null,"vod_pic":false,"vod_year":2004},
		{"vod_id":"3","vod_name":"Three","vod_actor":["a","b"],"vod_content":{"x":1}},
		7
	]}`

	data, err := decodeResponse([]byte(body))
	require.NoError(t, err)
	items := data.Items()
	require.Len(t, items, 3)

	assert.Equal(t, FlexString("2"), items[0].ID)
	assert.Equal(t, "2046", items[0].Name)
	assert.Equal(t, "12", items[0].Remarks)
	assert.Equal(t, "", items[0].TypeName)
	assert.Equal(t, "", items[0].Pic)
	assert.Equal(t, FlexString("2004"), items[0].Year)

	assert.Equal(t, "Three", items[1].Name)
	assert.Empty(t, items[1].Actor)
	assert.Empty(t, items[1].Content)

	assert.Equal(t, Item{}, *items[2])
}

func TestFetcher_NumericTitleKeepsSourceActive(t *testing.T) {
	_, cfg := newProxy(t, func(w http.ResponseWriter, target *url.URL) {
		w.Write([]byte(`{"pagecount":2,"list":[{"vod_id":1,"vod_name":2046,"vod_remarks":8}]}`))
	})

	out := NewFetcher(cfg).FetchPage(context.Background(), testSource, 1)

	require.NoError(t, out.Err)
	require.Len(t, out.Data.Items(), 1)
	assert.Equal(t, "2046", out.Data.Items()[0].Name)
	assert.Equal(t, "8", out.Data.Items()[0].Remarks)
	assert.Equal(t, "alpha", out.Data.Items()[0].SourceCode)
}

func TestItem_HasCover(t *testing.T) {
	assert.True(t, (&Item{Pic: "https://img.example.com/a.jpg"}).HasCover())
	assert.False(t, (&Item{Pic: "/upload/a.jpg"}).HasCover())
	assert.False(t, (&Item{}).HasCover())
}
