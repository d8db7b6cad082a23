package syncer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"onsdagar/internal/checksum"
)

// Planned is one file selected for transfer, with the digest it will be
// recorded under once transferred. Key is the object key as listed by the
// store; it is only set for downloads.
type Planned struct {
	Path   string
	Key    string
	Digest string
	Size   int64
}

// PlanDownload selects every remote file whose digest differs from, or is
// missing in, the manifest. Directory markers (keys ending in "/") are
// skipped. The result is sorted by path.
func PlanDownload(remote map[string]string, m checksum.Manifest) []Planned {
	var out []Planned
	for _, p := range sortedKeys(remote) {
		if p == "" || strings.HasSuffix(p, "/") {
			continue
		}
		if m.Changed(p, remote[p]) {
			out = append(out, Planned{Path: p, Digest: remote[p]})
		}
	}
	return out
}

// PlanUpload hashes each file under root and selects those whose digest
// differs from the manifest. files are slash-separated paths relative to
// root, as returned by ListLocal.
func PlanUpload(root string, files []string, m checksum.Manifest) ([]Planned, error) {
	var out []Planned
	for _, rel := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		digest, err := checksum.FileDigest(full)
		if err != nil {
			return nil, err
		}
		if !m.Changed(rel, digest) {
			continue
		}
		fi, err := os.Stat(full)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", full, err)
		}
		out = append(out, Planned{Path: rel, Digest: digest, Size: fi.Size()})
	}
	return out, nil
}

// ListLocal walks root and returns regular files as sorted, slash-separated
// relative paths. Dotfiles and dot-directories are skipped.
func ListLocal(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	slices.Sort(out)
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
