package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/vodfall/internal/config"
	"github.com/pders01/vodfall/internal/storage"
)

type fakePrefs struct {
	selected []string
	custom   []storage.CustomAPI
}

func (p fakePrefs) SelectedAPIs() []string          { return p.selected }
func (p fakePrefs) CustomAPIs() []storage.CustomAPI { return p.custom }

func testCatalog() *Catalog {
	return NewCatalogFromEntries(config.TestConfig().Catalog)
}

func TestRegistry_ResolveOrderAndKinds(t *testing.T) {
	prefs := fakePrefs{
		selected: []string{"beta", "custom_1", "alpha", "custom_0"},
		custom: []storage.CustomAPI{
			{Name: "Mine", URL: "https://mine.example.com/api"},
			{Name: "Yours", URL: "https://yours.example.com/api", Detail: "https://yours.example.com"},
		},
	}

	got := NewRegistry(prefs, testCatalog()).Resolve()
	require.Len(t, got, 4)

	assert.Equal(t, Source{Name: "Beta", API: "http://beta.test/api.php/provide/vod/", Detail: "http://beta.test", Code: "beta"}, got[0])
	assert.Equal(t, Source{Name: "Yours", API: "https://yours.example.com/api", Detail: "https://yours.example.com", IsCustom: true, Code: "custom_1"}, got[1])
	assert.Equal(t, "Alpha", got[2].Name)
	assert.False(t, got[2].HasDetail())
	assert.Equal(t, "custom_0", got[3].Code)
	assert.True(t, got[3].IsCustom)
}

func TestRegistry_SkipsUnresolvableIDs(t *testing.T) {
	prefs := fakePrefs{
		selected: []string{"gone", "custom_5", "custom_x", "custom_01", "custom_-1", "alpha"},
		custom:   []storage.CustomAPI{{Name: "A", URL: "u"}, {Name: "B", URL: "v"}},
	}

	got := NewRegistry(prefs, testCatalog()).Resolve()
	require.Len(t, got, 1)
	assert.Equal(t, "alpha", got[0].Code)
}

func TestRegistry_EmptySelection(t *testing.T) {
	got := NewRegistry(fakePrefs{}, testCatalog()).Resolve()
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, NewRegistry(nil, testCatalog()).Resolve())
}

func TestRegistry_MalformedStoreResolvesEmpty(t *testing.T) {
	store, err := storage.NewStore(t.TempDir() + "/prefs.db")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SetItem(storage.KeySelectedAPIs, `["alpha",`))

	got := NewRegistry(store, testCatalog()).Resolve()
	assert.Empty(t, got)
}

func TestCatalog_EmbeddedAndOverrides(t *testing.T) {
	cat, err := NewCatalog(map[string]config.CatalogEntry{
		"local": {Name: "Overridden", API: "http://override.test/api"},
		"extra": {Name: "Extra", API: "http://extra.test/api"},
	})
	require.NoError(t, err)

	local, ok := cat.Lookup("local")
	require.True(t, ok)
	assert.Equal(t, "Overridden", local.Name)

	detail, ok := cat.Lookup("local_detail")
	require.True(t, ok)
	assert.NotEmpty(t, detail.Detail)

	assert.Equal(t, []string{"extra", "local", "local_detail"}, cat.IDs())
}

func TestCatalog_LookupRejectsEntriesWithoutAPI(t *testing.T) {
	cat := NewCatalogFromEntries(map[string]config.CatalogEntry{"blank": {Name: "Blank"}})
	_, ok := cat.Lookup("blank")
	assert.False(t, ok)
}

func TestCatalog_Suggest(t *testing.T) {
	cat := testCatalog()
	assert.Equal(t, []string{"alpha"}, cat.Suggest("alph", 3))
	assert.Empty(t, cat.Suggest("zzz", 3))
}
