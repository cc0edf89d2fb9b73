// Package storage keeps book cover images in a remote object store.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/emzola/athenaeum/data"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrUpload               = errors.New("asset upload failed")
	ErrDelete               = errors.New("asset delete failed")
)

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/avif"}

// File is an image received for upload.
type File struct {
	Filename string
	Content  []byte
}

// Objects is a remote object store. Put returns the public URL of the stored object.
type Objects interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
}

// AssetStore uploads and deletes batches of images.
type AssetStore struct {
	objects Objects
	folder  string
}

// NewAssetStore returns an AssetStore writing keys under folder.
func NewAssetStore(objects Objects, folder string) *AssetStore {
	return &AssetStore{objects: objects, folder: strings.Trim(folder, "/")}
}

// Upload stores every file or none of them. The batch is rejected before any
// upload when a file is not an image, and assets already stored are removed
// when a later upload fails. The first image of the batch is primary.
func (s *AssetStore) Upload(ctx context.Context, files []File) (data.Images, error) {
	if len(files) == 0 {
		return nil, nil
	}
	mtypes := make([]*mimetype.MIME, len(files))
	for i, f := range files {
		mtype := mimetype.Detect(f.Content)
		if !validator.Mime(mtype, imageTypes...) {
			return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedMediaType, f.Filename, mtype.String())
		}
		mtypes[i] = mtype
	}
	uploaded := make(data.Images, 0, len(files))
	for i, f := range files {
		key, err := s.newKey(f.Filename, mtypes[i])
		if err == nil {
			var url string
			url, err = s.objects.Put(ctx, key, f.Content, mtypes[i].String())
			if err == nil {
				uploaded = append(uploaded, data.Image{Path: url, StorageID: key, IsPrimary: i == 0})
				continue
			}
		}
		uploadErr := fmt.Errorf("%w: %s: %w", ErrUpload, f.Filename, err)
		// The request context may already be done; cleanup still has to run.
		if cleanupErr := s.Delete(context.WithoutCancel(ctx), uploaded); cleanupErr != nil {
			return nil, errors.Join(uploadErr, cleanupErr)
		}
		return nil, uploadErr
	}
	return uploaded, nil
}

// Delete removes every image with a storage id. A failure does not stop the
// remaining deletions; all failures are reported together.
func (s *AssetStore) Delete(ctx context.Context, images data.Images) error {
	var errs []error
	for _, img := range images {
		if img.StorageID == "" {
			continue
		}
		if err := s.objects.Remove(ctx, img.StorageID); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", img.StorageID, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrDelete, errors.Join(errs...))
	}
	return nil
}

// newKey returns folder/<random><ext> for a file.
func (s *AssetStore) newKey(filename string, mtype *mimetype.MIME) (string, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = mtype.Extension()
	}
	name := strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes)) + ext
	return path.Join(s.folder, name), nil
}
