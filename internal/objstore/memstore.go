package objstore

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"onsdagar/internal/checksum"
)

// MemStore is an in-process Store. Failures can be injected per key.
type MemStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	failOn  map[string]error

	Uploads   []string
	Downloads []string
}

func NewMemStore() *MemStore {
	return &MemStore{
		objects: make(map[string][]byte),
		failOn:  make(map[string]error),
	}
}

// Put stores data under key directly.
func (s *MemStore) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = bytes.Clone(data)
}

// Get returns the stored bytes for key.
func (s *MemStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[key]
	return b, ok
}

// FailOn makes every transfer of key return err.
func (s *MemStore) FailOn(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[key] = err
}

func (s *MemStore) List(ctx context.Context, prefix string) ([]Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Object, 0, len(s.objects))
	for k, v := range s.objects {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		digest, err := checksum.Digest(bytes.NewReader(v))
		if err != nil {
			return nil, err
		}
		out = append(out, Object{Key: k, Digest: digest, Size: int64(len(v))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *MemStore) Upload(ctx context.Context, key, localPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failOn[key]; err != nil {
		return fmt.Errorf("mem: put %s: %w", key, err)
	}
	b, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("mem: read %s: %w", localPath, err)
	}
	s.objects[key] = b
	s.Uploads = append(s.Uploads, key)
	return nil
}

func (s *MemStore) Download(ctx context.Context, key, localPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failOn[key]; err != nil {
		return fmt.Errorf("mem: get %s: %w", key, err)
	}
	b, ok := s.objects[key]
	if !ok {
		return fmt.Errorf("mem: get %s: %w", key, ErrNotFound)
	}
	if err := writeLocal(localPath, bytes.NewReader(b)); err != nil {
		return err
	}
	s.Downloads = append(s.Downloads, key)
	return nil
}
