package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `[
  {"name": "Card A", "set": "4ed", "finishes": ["nonfoil"], "legalities": {"premodern": "legal"}, "border_color": "black", "type_line": "Creature", "prices": {"eur": null, "usd": "0.10"}},
  {"name": "Card A", "set": "4ed", "finishes": ["nonfoil"], "legalities": {"premodern": "legal"}, "border_color": "white", "type_line": "Creature"}
]`

func newBulkServer(t *testing.T, bulkType string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/bulk-data", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"object":"list","data":[
		  {"type":"oracle_cards","download_uri":"%[1]s/oracle.json","updated_at":"2025-01-01T10:00:00+00:00"},
		  {"type":%[2]q,"download_uri":"%[1]s/default.json","updated_at":"2025-01-02T10:00:00+00:00"}
		]}`, srv.URL, bulkType)
	})
	mux.HandleFunc("/default.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCatalog))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetcher_Download(t *testing.T) {
	srv := newBulkServer(t, DefaultBulkType)
	dest := filepath.Join(t.TempDir(), "scripts", "default-cards.json")

	f := NewFetcher(srv.URL+"/bulk-data", "", nil)
	info, err := f.Download(context.Background(), dest)
	require.NoError(t, err)
	assert.Equal(t, DefaultBulkType, info.Type)

	entries, err := LoadEntries(dest)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "", entries[0].Prices["eur"])
	assert.Equal(t, "white", entries[1].BorderColor)

	cards, _ := Filter(entries, Options{LegalSets: []string{"4ed"}, Format: "premodern"})
	require.Len(t, cards, 1)
	assert.Equal(t, "creature", cards[0].CardType)
}

func TestFetcher_MissingBulkType(t *testing.T) {
	srv := newBulkServer(t, "all_cards")
	dest := filepath.Join(t.TempDir(), "default-cards.json")

	f := NewFetcher(srv.URL+"/bulk-data", DefaultBulkType, nil)
	_, err := f.Download(context.Background(), dest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBulkDataNotFound))

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetcher_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewFetcher(srv.URL, "", nil).Lookup(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestLoadEntries_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadEntries(filepath.Join(dir, "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not": "a list"}`), 0o644))
	_, err = LoadEntries(bad)
	require.Error(t, err)
}
