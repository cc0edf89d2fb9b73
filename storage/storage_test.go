package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/emzola/athenaeum/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
)

// memObjects is an in-memory object store that can be told to fail.
type memObjects struct {
	mu        sync.Mutex
	objects   map[string][]byte
	puts      int
	removes   []string
	failPutAt int
	failKeys  map[string]bool
}

func newMemObjects() *memObjects {
	return &memObjects{objects: make(map[string][]byte), failKeys: make(map[string]bool)}
}

func (m *memObjects) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.puts == m.failPutAt {
		return "", errors.New("connection reset")
	}
	m.objects[key] = body
	return "https://example.test/" + key, nil
}

func (m *memObjects) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removes = append(m.removes, key)
	if m.failKeys[key] {
		return errors.New("access denied")
	}
	delete(m.objects, key)
	return nil
}

func TestUpload(t *testing.T) {
	t.Run("stores every file", func(t *testing.T) {
		objects := newMemObjects()
		store := NewAssetStore(objects, "/library/books/")

		images, err := store.Upload(context.Background(), []File{
			{Filename: "front.PNG", Content: pngBytes},
			{Filename: "back", Content: jpegBytes},
		})
		require.NoError(t, err)
		require.Len(t, images, 2)
		assert.True(t, images[0].IsPrimary)
		assert.False(t, images[1].IsPrimary)
		assert.True(t, strings.HasPrefix(images[0].StorageID, "library/books/"))
		assert.True(t, strings.HasSuffix(images[0].StorageID, ".png"))
		assert.True(t, strings.HasSuffix(images[1].StorageID, ".jpg"))
		assert.Equal(t, "https://example.test/"+images[0].StorageID, images[0].Path)
		assert.Len(t, objects.objects, 2)
	})

	t.Run("failure removes the partial batch", func(t *testing.T) {
		objects := newMemObjects()
		objects.failPutAt = 3
		store := NewAssetStore(objects, "books")

		images, err := store.Upload(context.Background(), []File{
			{Filename: "a.png", Content: pngBytes},
			{Filename: "b.png", Content: pngBytes},
			{Filename: "c.png", Content: pngBytes},
		})
		assert.ErrorIs(t, err, ErrUpload)
		assert.Nil(t, images)
		assert.Empty(t, objects.objects)
		assert.Len(t, objects.removes, 2)
	})

	t.Run("non image rejects the batch up front", func(t *testing.T) {
		objects := newMemObjects()
		store := NewAssetStore(objects, "books")

		_, err := store.Upload(context.Background(), []File{
			{Filename: "a.png", Content: pngBytes},
			{Filename: "notes.txt", Content: []byte("plain text")},
		})
		assert.ErrorIs(t, err, ErrUnsupportedMediaType)
		assert.Zero(t, objects.puts)
	})

	t.Run("empty batch", func(t *testing.T) {
		images, err := NewAssetStore(newMemObjects(), "books").Upload(context.Background(), nil)
		assert.NoError(t, err)
		assert.Empty(t, images)
	})
}

func TestDelete(t *testing.T) {
	objects := newMemObjects()
	for _, key := range []string{"a", "b", "c"} {
		objects.objects[key] = pngBytes
	}
	objects.failKeys["b"] = true
	store := NewAssetStore(objects, "books")

	err := store.Delete(context.Background(), data.Images{
		{StorageID: "a"}, {StorageID: "b"}, {StorageID: ""}, {StorageID: "c"},
	})
	assert.ErrorIs(t, err, ErrDelete)
	assert.Equal(t, []string{"a", "b", "c"}, objects.removes)
	assert.Equal(t, map[string][]byte{"b": pngBytes}, objects.objects)
}
