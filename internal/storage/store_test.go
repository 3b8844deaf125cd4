package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	tmpDir, err := os.MkdirTemp("", "store-test-*")
	if err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	store, err := NewStore(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatal(err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func TestStore_ItemRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, found, err := store.GetItem("missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.SetItem("k", `["a"]`))
	value, found, err := store.GetItem("k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["a"]`, value)

	require.NoError(t, store.RemoveItem("k"))
	_, found, err = store.GetItem("k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_SelectedAPIs(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.Empty(t, store.SelectedAPIs(), "missing key reads as empty")

	require.NoError(t, store.SetSelectedAPIs([]string{"beta", "custom_0", "alpha"}))
	assert.Equal(t, []string{"beta", "custom_0", "alpha"}, store.SelectedAPIs())

	require.NoError(t, store.SetSelectedAPIs(nil))
	raw, _, err := store.GetItem(KeySelectedAPIs)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestStore_MalformedValuesFailClosed(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	tests := []struct {
		name  string
		value string
	}{
		{"truncated json", `["alpha", "be`},
		{"object instead of array", `{"alpha": true}`},
		{"numbers instead of strings", `[1, 2, 3]`},
		{"plain text", `alpha,beta`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, store.SetItem(KeySelectedAPIs, tt.value))
			assert.Empty(t, store.SelectedAPIs())

			require.NoError(t, store.SetItem(KeyCustomAPIs, tt.value))
			assert.Empty(t, store.CustomAPIs())
		})
	}
}

func TestStore_AddCustomAPI(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	id, err := store.AddCustomAPI(CustomAPI{Name: "Mine", URL: "https://mine.example.com/api"})
	require.NoError(t, err)
	assert.Equal(t, "custom_0", id)

	id, err = store.AddCustomAPI(CustomAPI{Name: "Other", URL: "https://other.example.com/api", Detail: "https://other.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "custom_1", id)

	apis := store.CustomAPIs()
	require.Len(t, apis, 2)
	assert.Equal(t, "Mine", apis[0].Name)
	assert.Equal(t, "https://other.example.com", apis[1].Detail)
}

func TestStore_AddCustomAPI_ReplacesCorruptList(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	require.NoError(t, store.SetItem(KeyCustomAPIs, "not json"))

	id, err := store.AddCustomAPI(CustomAPI{Name: "Fresh", URL: "https://fresh.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "custom_0", id)
	assert.Len(t, store.CustomAPIs(), 1)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.SetSelectedAPIs([]string{"alpha"}))
	require.NoError(t, store.Close())

	store, err = NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, []string{"alpha"}, store.SelectedAPIs())
}
