package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Anna Svensson":   "anna-svensson",
		"  Åsa Öberg ":    "asa-oberg",
		"Lim-Dûl's Vault": "limduls-vault",
		"Björn  Ek":       "bjorn-ek",
		"!!!":             "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestWriteJSON_KeepsNonASCIIAndIndent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b.json")
	require.NoError(t, WriteJSON(path, map[string]string{"name": "Onsdagstävling <1>"}, "    "))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"name\": \"Onsdagstävling <1>\"\n}\n", string(b))

	var out map[string]string
	require.NoError(t, ReadJSON(path, &out))
	assert.Equal(t, "Onsdagstävling <1>", out["name"])
}

func TestReadJSON_Missing(t *testing.T) {
	var out map[string]string
	err := ReadJSON(filepath.Join(t.TempDir(), "nope.json"), &out)
	assert.True(t, os.IsNotExist(err))
}
