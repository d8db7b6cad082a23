// Package config loads the admin settings file. A missing file yields the
// defaults; selected fields can be overridden from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"onsdagar/pkg/database"
)

// Config holds all admin tool settings.
type Config struct {
	InputDir     string `yaml:"input_dir"`
	FilesDir     string `yaml:"files_dir"`
	ScriptsDir   string `yaml:"scripts_dir"`
	ManifestPath string `yaml:"manifest_path"`
	DBPath       string `yaml:"db_path"`

	Catalog CatalogConfig `yaml:"catalog"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
}

type CatalogConfig struct {
	LegalSets          []string `yaml:"legal_sets"`
	Format             string   `yaml:"format"`
	ExpectedCount      int      `yaml:"expected_count"`
	ExpectedPriceCount int      `yaml:"expected_price_count"`
	BulkType           string   `yaml:"bulk_type"`
	BulkDataURL        string   `yaml:"bulk_data_url"`
}

// StorageConfig identifies the remote bucket. Credentials may be left
// empty to fall back to the standard AWS credential chain.
type StorageConfig struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// PremodernSets are the set codes legal in Premodern.
var PremodernSets = []string{
	"4ed", "ice", "chr", "hml", "all", "mir", "vis", "5ed", "wth", "tmp",
	"sth", "exo", "usg", "ulg", "6ed", "uds", "mmq", "nem", "pcy", "inv",
	"pls", "7ed", "apc", "ody", "tor", "jud", "ons", "lgn", "scg",
}

// DefaultConfig returns the settings used when no file is present.
func DefaultConfig() Config {
	return Config{
		InputDir:     "input",
		FilesDir:     "files",
		ScriptsDir:   "scripts",
		ManifestPath: filepath.Join("input", ".checksums.json"),
		DBPath:       database.DefaultConfig().Path,
		Catalog: CatalogConfig{
			LegalSets:          append([]string(nil), PremodernSets...),
			Format:             "premodern",
			ExpectedCount:      5408,
			ExpectedPriceCount: 5403,
			BulkType:           "default_cards",
			BulkDataURL:        "https://api.scryfall.com/bulk-data",
		},
		Storage: StorageConfig{
			Prefix: "input",
			Region: "auto",
		},
		Server: ServerConfig{Addr: ":8081"},
	}
}

// Load reads path over the defaults and applies env overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config as YAML.
func (c Config) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, b, 0o600)
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.Storage.Bucket, "ONSDAGAR_BUCKET")
	setString(&c.Storage.Endpoint, "ONSDAGAR_ENDPOINT")
	setString(&c.Storage.AccessKeyID, "ONSDAGAR_ACCESS_KEY_ID")
	setString(&c.Storage.SecretAccessKey, "ONSDAGAR_SECRET_ACCESS_KEY")
	setString(&c.DBPath, "ONSDAGAR_DB_PATH")
	setString(&c.Server.Addr, "ONSDAGAR_ADDR")

	if v := os.Getenv("ONSDAGAR_EXPECTED_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Catalog.ExpectedCount = n
		}
	}
}

// CardDBPath is where the typed card database is written.
func (c Config) CardDBPath() string { return filepath.Join(c.FilesDir, "db.json") }

// PriceDBPath is where the price database is written.
func (c Config) PriceDBPath() string { return filepath.Join(c.ScriptsDir, "prices.json") }

// BulkPath is where the downloaded bulk catalog lives.
func (c Config) BulkPath() string { return filepath.Join(c.ScriptsDir, "default-cards.json") }

// EventsDir holds one JSON record per event.
func (c Config) EventsDir() string { return filepath.Join(c.InputDir, "events") }

// DecklistsDir holds decklist text files grouped by event date.
func (c Config) DecklistsDir() string { return filepath.Join(c.InputDir, "decklists") }
