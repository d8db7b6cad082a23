package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("ONSDAGAR_BUCKET", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "settings.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Len(t, cfg.Catalog.LegalSets, 29)
	assert.Equal(t, filepath.Join("files", "db.json"), cfg.CardDBPath())
	assert.Equal(t, filepath.Join("input", "events"), cfg.EventsDir())
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("ONSDAGAR_BUCKET", "")
	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := DefaultConfig()
	cfg.Storage.Bucket = "onsdagar"
	cfg.Storage.Endpoint = "https://example.r2.cloudflarestorage.com"
	cfg.Catalog.ExpectedCount = 5410
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("ONSDAGAR_BUCKET", "")
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  bucket: mine\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mine", cfg.Storage.Bucket)
	assert.Equal(t, "input", cfg.Storage.Prefix)
	assert.Equal(t, "premodern", cfg.Catalog.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ONSDAGAR_BUCKET", "env-bucket")
	t.Setenv("ONSDAGAR_SECRET_ACCESS_KEY", "secret")
	t.Setenv("ONSDAGAR_EXPECTED_COUNT", "42")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-bucket", cfg.Storage.Bucket)
	assert.Equal(t, "secret", cfg.Storage.SecretAccessKey)
	assert.Equal(t, 42, cfg.Catalog.ExpectedCount)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog: [oops"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}
