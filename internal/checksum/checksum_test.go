package checksum

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest(t *testing.T) {
	got, err := Digest(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", got)

	got, err = Digest(strings.NewReader("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", got)
}

func TestFileDigest_LargerThanChunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	data := strings.Repeat("premodern ", ChunkSize)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	fromFile, err := FileDigest(path)
	require.NoError(t, err)
	fromReader, err := Digest(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, fromReader, fromFile)

	_, err = FileDigest(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestManifest_LoadMissingIsEmpty(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestManifest_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "manifest.json")

	m := Manifest{}
	m.Set(filepath.Join("events", "2025-01-08.json"), "abc")
	m.Set("players.json", "def")
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)
	assert.Equal(t, []string{"events/2025-01-08.json", "players.json"}, loaded.Paths())

	assert.False(t, loaded.Changed("players.json", "def"))
	assert.True(t, loaded.Changed("players.json", "xyz"))
	assert.True(t, loaded.Changed("new.json", "def"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestManifest_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
