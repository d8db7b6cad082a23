package objstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.json")
	require.NoError(t, os.WriteFile(src, []byte("hello world"), 0o644))

	s := NewMemStore()
	require.NoError(t, s.Upload(ctx, "input/src.json", src))
	s.Put("input/events/", nil)
	s.Put("other/x.json", []byte("x"))

	objs, err := s.List(ctx, "input/")
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "input/events/", objs[0].Key)
	assert.Equal(t, "input/src.json", objs[1].Key)
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", objs[1].Digest)
	assert.EqualValues(t, 11, objs[1].Size)

	dst := filepath.Join(dir, "out", "deep", "src.json")
	require.NoError(t, s.Download(ctx, "input/src.json", dst))
	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(b))

	err = s.Download(ctx, "input/missing.json", dst)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStore_FailOn(t *testing.T) {
	ctx := context.Background()
	src := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0o644))

	s := NewMemStore()
	s.FailOn("a.txt", ErrAccessDenied)
	err := s.Upload(ctx, "a.txt", src)
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, ok := s.Get("a.txt")
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	denied := classify(&smithy.GenericAPIError{Code: "AccessDenied", Message: "nope"})
	assert.ErrorIs(t, denied, ErrAccessDenied)

	var apiErr smithy.APIError
	assert.True(t, errors.As(denied, &apiErr), "original error must stay reachable")

	missing := classify(&smithy.GenericAPIError{Code: "NoSuchKey"})
	assert.ErrorIs(t, missing, ErrNotFound)

	other := errors.New("connection reset")
	assert.Same(t, other, classify(other))
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{})
	assert.Error(t, err)
}
