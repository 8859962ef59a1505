package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBuckets_PutRemove(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalBuckets(root, "https://cdn.example/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := s.Put(ctx, BucketAvatars, "7/123-abc.png", []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/storage/avatars/7/123-abc.png", url)

	data, err := os.ReadFile(filepath.Join(root, BucketAvatars, "7", "123-abc.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)

	p, ok := s.PathFromURL(BucketAvatars, url)
	require.True(t, ok)
	assert.Equal(t, "7/123-abc.png", p)

	require.NoError(t, s.Remove(ctx, BucketAvatars, p))
	require.NoError(t, s.Remove(ctx, BucketAvatars, p), "повторное удаление не ошибка")
	_, err = os.Stat(filepath.Join(root, BucketAvatars, "7", "123-abc.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalBuckets_PathTraversal(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalBuckets(root, "")
	require.NoError(t, err)

	_, err = s.Put(context.Background(), BucketCovers, "../../etc/passwd", []byte("x"))
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(root, BucketCovers, "etc", "passwd"))
	assert.NoError(t, statErr, "путь должен остаться внутри бакета")

	_, err = s.Put(context.Background(), "../x", "a", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestPathFromURL_Foreign(t *testing.T) {
	s := &LocalBuckets{publicBase: "https://cdn.example"}
	_, ok := s.PathFromURL(BucketAvatars, "https://other.example/storage/avatars/1.png")
	assert.False(t, ok)
}
