package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
)

// Entry is one card printing as it appears in the upstream bulk catalog.
// Only the fields the filter reads are decoded.
type Entry struct {
	Name        string            `json:"name"`
	Set         string            `json:"set"`
	Legalities  map[string]string `json:"legalities"`
	BorderColor string            `json:"border_color,omitempty"`
	Finishes    []string          `json:"finishes"`
	TypeLine    string            `json:"type_line"`
	Prices      map[string]string `json:"prices,omitempty"`
	ImageURIs   map[string]string `json:"image_uris,omitempty"`
}

// Legality returns the entry's status in format, or "" when unknown.
func (e Entry) Legality(format string) string {
	return e.Legalities[format]
}

// Image returns the image URL for the given size/crop variant, or "".
func (e Entry) Image(variant string) string {
	return e.ImageURIs[variant]
}

// HasFinish reports whether finish is among the entry's available finishes.
func (e Entry) HasFinish(finish string) bool {
	return slices.Contains(e.Finishes, finish)
}

// LoadEntries reads a whole bulk catalog document from path.
func LoadEntries(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return entries, nil
}
