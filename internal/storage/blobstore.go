package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// BlobStore stores opaque files under keys, on local disk or in an S3 bucket.
type BlobStore interface {
	Put(ctx context.Context, key string, data io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// Open returns an S3 store for s3:// locations and a local store otherwise.
func Open(location, region string) (BlobStore, error) {
	if strings.HasPrefix(location, "s3://") {
		s, err := NewS3BlobStore(location, region)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return NewLocalBlobStore(location), nil
}

// UploadFile copies the local file at path into store under key.
func UploadFile(ctx context.Context, store BlobStore, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return err
	}
	if err := store.Put(ctx, key, f, st.Size()); err != nil {
		return fmt.Errorf("enviar %s para %s: %w", path, key, err)
	}
	return nil
}
