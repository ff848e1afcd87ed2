package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewConfigStore_Path(t *testing.T) {
	store, dir := newTestStore(t)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultDirName, "config.toml"), store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("search.cache_ttl_seconds", 300))
	require.NoError(t, store.Set("search.include_placeholders", true))
	require.NoError(t, store.Set("integrations.jira.cloud_id", "cloud-1"))
	require.NoError(t, store.Set("search.sources", []string{"jira", "notion"}))

	assert.Equal(t, 300, store.GetInt("search.cache_ttl_seconds"))
	assert.True(t, store.GetBool("search.include_placeholders"))
	assert.Equal(t, "cloud-1", store.GetString("integrations.jira.cloud_id"))
	assert.Equal(t, []string{"jira", "notion"}, store.GetStringSlice("search.sources"))

	// Wrong types and missing keys yield zero values
	assert.Equal(t, 0, store.GetInt("integrations.jira.cloud_id"))
	assert.Equal(t, "", store.GetString("search.cache_ttl_seconds"))
	assert.False(t, store.GetBool("missing"))
	assert.Nil(t, store.GetStringSlice("missing"))
	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("search.provider_timeout_seconds", 20))
	require.NoError(t, store.Set("integrations.google_drive.access_token", "ya29.token"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "[search]")
	assert.Contains(t, content, "provider_timeout_seconds = 20")
	assert.Contains(t, content, "[integrations.google_drive]")
	assert.NotContains(t, content, "'search.provider_timeout_seconds'")
}

func TestConfigStore_Persistence(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, store.Set("search.max_results_per_provider", 25))
	require.NoError(t, store.Set("search.broaden_unconnected_intent", false))
	require.NoError(t, store.Set("integrations.notion.workspace", "Acme HQ"))
	require.NoError(t, store.Set("ratio", 0.5))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 25, reloaded.GetInt("search.max_results_per_provider"))
	v, ok := reloaded.Get("search.broaden_unconnected_intent")
	assert.True(t, ok)
	assert.Equal(t, false, v)
	assert.Equal(t, "Acme HQ", reloaded.GetString("integrations.notion.workspace"))
	ratio, ok := reloaded.Get("ratio")
	assert.True(t, ok)
	assert.Equal(t, 0.5, ratio)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("integrations.github.access_token", "ghp_secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	_, ok := store.Get("search.cache_ttl_seconds")
	assert.False(t, ok)
}

func TestConfigStore_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not toml {{[["), 0600))

	store, err := NewConfigStore(dir)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_LoadPicksUpExternalEdits(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set("search.cache_ttl_seconds", 300))

	edited := "[search]\ncache_ttl_seconds = 60\n\n[integrations.jira]\naccess_token = \"tok\"\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(edited), 0600))

	require.NoError(t, store.Load())
	assert.Equal(t, 60, store.GetInt("search.cache_ttl_seconds"))
	assert.Equal(t, "tok", store.GetString("integrations.jira.access_token"))
}

func TestConfigStore_SaveErrors(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Set("search.cache_ttl_seconds", 300))

	// Replace the file with a directory so the write fails
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	assert.Error(t, store.Set("search.cache_ttl_seconds", 60))
}

func TestNewConfigStore_MkdirAllError(t *testing.T) {
	store, err := NewConfigStore("/dev/null/cannot/create/dirs")

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "search.key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 7, store.GetInt("search.key7"))
}

func TestNestMap(t *testing.T) {
	got := nestMap(map[string]any{
		"a.b":   1,
		"a.c.d": "x",
		"e":     true,
		"e.f":   "shadowed",
	})

	assert.Equal(t, map[string]any{
		"a": map[string]any{
			"b": 1,
			"c": map[string]any{"d": "x"},
		},
		"e": true,
	}, got)
}

func TestFlattenMap(t *testing.T) {
	got := flattenMap(map[string]any{
		"search": map[string]any{"cache_ttl_seconds": int64(300)},
		"top":    "v",
	}, "")

	assert.Equal(t, map[string]any{"search.cache_ttl_seconds": int64(300), "top": "v"}, got)
}
