package checksum

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"

	"onsdagar/pkg/utils"
)

// Manifest maps a slash-separated path relative to the sync root to the
// digest recorded when that file was last transferred. A missing entry
// means the file was never synced.
type Manifest map[string]string

// Load reads the manifest at path. A missing file yields an empty manifest.
func Load(path string) (Manifest, error) {
	m := Manifest{}
	if err := utils.ReadJSON(path, &m); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, nil
		}
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	if m == nil {
		m = Manifest{}
	}
	return m, nil
}

// Save atomically replaces the manifest file at path.
func (m Manifest) Save(path string) error {
	if err := utils.WriteJSON(path, m, "    "); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}

// Changed reports whether digest differs from the recorded one for rel,
// including when rel has never been recorded.
func (m Manifest) Changed(rel, digest string) bool {
	old, ok := m[filepath.ToSlash(rel)]
	return !ok || old != digest
}

// Set records digest for rel.
func (m Manifest) Set(rel, digest string) {
	m[filepath.ToSlash(rel)] = digest
}

// Paths returns the recorded paths in sorted order.
func (m Manifest) Paths() []string {
	return slices.Sorted(maps.Keys(m))
}
