// Package syncer replicates the local input directory to and from the
// object store, transferring only files whose content digest changed since
// the last recorded sync.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"onsdagar/internal/checksum"
	"onsdagar/internal/objstore"
)

// Syncer holds one local root / remote prefix pairing.
type Syncer struct {
	Store        objstore.Store
	Root         string
	Prefix       string
	ManifestPath string
	DryRun       bool
	Logger       *zap.Logger
}

// Report summarises one run. Completed counts files actually transferred.
// Skipped lists remote keys that were not downloaded because they do not
// map to a distinct file inside Root.
type Report struct {
	RunID     string
	Planned   []Planned
	Skipped   []string
	Completed int
	Bytes     int64
}

// BatchError is returned when a transfer aborts the batch. Files before
// Path were transferred; the manifest was not written.
type BatchError struct {
	Path      string
	Completed int
	Planned   int
	Err       error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("transfer %s failed after %d of %d files: %v", e.Path, e.Completed, e.Planned, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// AccessDenied reports whether the batch stopped on a permission error.
func (e *BatchError) AccessDenied() bool {
	return errors.Is(e.Err, objstore.ErrAccessDenied)
}

func (s *Syncer) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// listPrefix is the remote prefix with exactly one trailing slash, or "".
func (s *Syncer) listPrefix() string {
	p := strings.Trim(s.Prefix, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

// key is the object key for a clean local path.
func (s *Syncer) key(rel string) string {
	return s.listPrefix() + rel
}

// localPath maps a listed key to a clean slash path under Root. ok is false
// for directory markers and for keys that would land outside Root.
func (s *Syncer) localPath(key string) (rel string, ok bool) {
	rel = strings.TrimPrefix(key, s.listPrefix())
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", false
	}
	return path.Clean(rel), true
}

// Download pulls every remote file whose digest differs from the manifest.
// The manifest is saved only when the whole batch succeeds.
func (s *Syncer) Download(ctx context.Context) (Report, error) {
	rep := Report{RunID: uuid.NewString()}
	log := s.logger().With(zap.String("run_id", rep.RunID), zap.String("direction", "download"))

	m, err := checksum.Load(s.ManifestPath)
	if err != nil {
		return rep, err
	}

	objs, err := s.Store.List(ctx, s.listPrefix())
	if err != nil {
		return rep, fmt.Errorf("list remote: %w", err)
	}
	remote := make(map[string]string, len(objs))
	listed := make(map[string]objstore.Object, len(objs))
	for _, o := range objs {
		if o.Key == s.listPrefix() || strings.HasSuffix(o.Key, "/") {
			continue
		}
		rel, ok := s.localPath(o.Key)
		if !ok {
			log.Warn("skipping key outside the local root", zap.String("key", o.Key))
			rep.Skipped = append(rep.Skipped, o.Key)
			continue
		}
		if prev, dup := listed[rel]; dup {
			log.Warn("skipping key that maps to an already listed file",
				zap.String("key", o.Key), zap.String("kept", prev.Key))
			rep.Skipped = append(rep.Skipped, o.Key)
			continue
		}
		remote[rel] = o.Digest
		listed[rel] = o
	}

	rep.Planned = PlanDownload(remote, m)
	for i := range rep.Planned {
		o := listed[rep.Planned[i].Path]
		rep.Planned[i].Key = o.Key
		rep.Planned[i].Size = o.Size
	}
	log.Info("download planned", zap.Int("remote", len(objs)), zap.Int("planned", len(rep.Planned)))
	if s.DryRun || len(rep.Planned) == 0 {
		return rep, nil
	}

	for _, p := range rep.Planned {
		dest := filepath.Join(s.Root, filepath.FromSlash(p.Path))
		if err := s.Store.Download(ctx, p.Key, dest); err != nil {
			log.Error("download failed", zap.String("path", p.Path), zap.Error(err))
			return rep, &BatchError{Path: p.Path, Completed: rep.Completed, Planned: len(rep.Planned), Err: err}
		}
		m.Set(p.Path, p.Digest)
		rep.Completed++
		rep.Bytes += p.Size
		log.Debug("downloaded", zap.String("path", p.Path))
	}

	if err := m.Save(s.ManifestPath); err != nil {
		return rep, err
	}
	return rep, nil
}

// Upload pushes every local file whose digest differs from the manifest.
// The first failed transfer aborts the batch; files already uploaded stay
// uploaded but the manifest is left untouched.
func (s *Syncer) Upload(ctx context.Context) (Report, error) {
	rep := Report{RunID: uuid.NewString()}
	log := s.logger().With(zap.String("run_id", rep.RunID), zap.String("direction", "upload"))

	m, err := checksum.Load(s.ManifestPath)
	if err != nil {
		return rep, err
	}

	files, err := ListLocal(s.Root)
	if err != nil {
		return rep, err
	}
	files = s.withoutManifest(files)

	rep.Planned, err = PlanUpload(s.Root, files, m)
	if err != nil {
		return rep, err
	}
	log.Info("upload planned", zap.Int("local", len(files)), zap.Int("planned", len(rep.Planned)))
	if s.DryRun || len(rep.Planned) == 0 {
		return rep, nil
	}

	for _, p := range rep.Planned {
		src := filepath.Join(s.Root, filepath.FromSlash(p.Path))
		if err := s.Store.Upload(ctx, s.key(p.Path), src); err != nil {
			log.Error("upload failed", zap.String("path", p.Path), zap.Error(err))
			return rep, &BatchError{Path: p.Path, Completed: rep.Completed, Planned: len(rep.Planned), Err: err}
		}
		m.Set(p.Path, p.Digest)
		rep.Completed++
		rep.Bytes += p.Size
		log.Debug("uploaded", zap.String("path", p.Path))
	}

	if err := m.Save(s.ManifestPath); err != nil {
		return rep, err
	}
	return rep, nil
}

// withoutManifest drops the manifest file itself when it lives under Root.
func (s *Syncer) withoutManifest(files []string) []string {
	rel, err := filepath.Rel(s.Root, s.ManifestPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return files
	}
	rel = filepath.ToSlash(rel)

	out := files[:0]
	for _, f := range files {
		if f != rel {
			out = append(out, f)
		}
	}
	return out
}
