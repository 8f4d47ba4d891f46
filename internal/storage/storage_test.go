package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutGetDelete(t *testing.T) {
	backend, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	data := []byte{0x89, 'P', 'N', 'G'}
	require.NoError(t, backend.Put(ctx, "avatars/1001.png", data, "image/png"))

	got, err := backend.Get(ctx, "avatars/1001.png")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, backend.Delete(ctx, "avatars/1001.png"))
	_, err = backend.Get(ctx, "avatars/1001.png")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing object is a no-op.
	assert.NoError(t, backend.Delete(ctx, "avatars/1001.png"))
}

func TestLocalRejectsTraversal(t *testing.T) {
	backend, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, backend.Put(ctx, "../escape.png", nil, ""))
	assert.Error(t, backend.Put(ctx, "/etc/passwd", nil, ""))
}

func TestNewSelectsBackend(t *testing.T) {
	backend, err := New(context.Background(), Config{
		Type:  "local",
		Local: LocalConfig{Path: t.TempDir()},
	})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, backend)

	_, err = New(context.Background(), Config{Type: "ftp"})
	assert.Error(t, err)
}

func TestNewS3RequiresBucket(t *testing.T) {
	_, err := NewS3(context.Background(), S3Config{})
	assert.Error(t, err)
}
