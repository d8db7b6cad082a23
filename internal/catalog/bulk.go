package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultBulkDataURL = "https://api.scryfall.com/bulk-data"
	DefaultBulkType    = "default_cards"
)

// ErrBulkDataNotFound is returned when the bulk-data index has no entry of
// the requested type.
var ErrBulkDataNotFound = errors.New("bulk data entry not found")

// BulkInfo describes one downloadable bulk file from the index.
type BulkInfo struct {
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	DownloadURI string    `json:"download_uri"`
	UpdatedAt   time.Time `json:"updated_at"`
	Size        int64     `json:"size"`
}

type bulkIndex struct {
	Data []BulkInfo `json:"data"`
}

// Fetcher downloads the upstream bulk catalog.
type Fetcher struct {
	IndexURL string
	Type     string
	Client   *http.Client
	Logger   *zap.Logger
}

// NewFetcher creates a Fetcher with sane defaults for empty arguments.
func NewFetcher(indexURL, bulkType string, logger *zap.Logger) *Fetcher {
	if indexURL == "" {
		indexURL = DefaultBulkDataURL
	}
	if bulkType == "" {
		bulkType = DefaultBulkType
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		IndexURL: indexURL,
		Type:     bulkType,
		// the default_cards file is several hundred MB
		Client: &http.Client{Timeout: 10 * time.Minute},
		Logger: logger,
	}
}

// Lookup resolves the bulk-data entry for f.Type.
func (f *Fetcher) Lookup(ctx context.Context) (BulkInfo, error) {
	resp, err := f.get(ctx, f.IndexURL)
	if err != nil {
		return BulkInfo{}, fmt.Errorf("bulk index: %w", err)
	}
	defer resp.Body.Close()

	var idx bulkIndex
	if err := json.NewDecoder(resp.Body).Decode(&idx); err != nil {
		return BulkInfo{}, fmt.Errorf("bulk index: decode json: %w", err)
	}

	for _, b := range idx.Data {
		if b.Type == f.Type {
			return b, nil
		}
	}
	return BulkInfo{}, fmt.Errorf("%w: type %q", ErrBulkDataNotFound, f.Type)
}

// Download fetches the bulk file for f.Type into dest. dest is only replaced
// once the whole body has been received.
func (f *Fetcher) Download(ctx context.Context, dest string) (BulkInfo, error) {
	info, err := f.Lookup(ctx)
	if err != nil {
		return BulkInfo{}, err
	}
	f.Logger.Info("downloading bulk data",
		zap.String("type", info.Type),
		zap.String("uri", info.DownloadURI),
		zap.Time("updated_at", info.UpdatedAt),
	)

	resp, err := f.get(ctx, info.DownloadURI)
	if err != nil {
		return BulkInfo{}, fmt.Errorf("bulk download: %w", err)
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return BulkInfo{}, fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".bulk-*")
	if err != nil {
		return BulkInfo{}, fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return BulkInfo{}, fmt.Errorf("bulk download: copy body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return BulkInfo{}, fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return BulkInfo{}, fmt.Errorf("rename %s: %w", dest, err)
	}
	return info, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "onsdagar-admin/1.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return resp, nil
}
