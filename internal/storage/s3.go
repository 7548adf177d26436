package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3BlobStore stores blobs in Bucket below Prefix.
type S3BlobStore struct {
	Bucket string
	Prefix string

	client   s3iface.S3API
	uploader *s3manager.Uploader
}

func NewS3BlobStore(uri, region string) (*S3BlobStore, error) {
	bucket, prefix, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("[s3-storage] criar sessão: %w", err)
	}
	client := s3.New(sess)
	return &S3BlobStore{
		Bucket:   bucket,
		Prefix:   prefix,
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
	}, nil
}

// ParseS3URI splits s3://bucket/some/prefix into its bucket and key prefix.
func ParseS3URI(uri string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("[s3-storage] URI sem esquema s3://: %q", uri)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("[s3-storage] bucket ausente em %q", uri)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

func (s *S3BlobStore) key(k string) string {
	return path.Join(s.Prefix, k)
}

// Put streams data to S3. Large bodies go up as a multipart upload.
func (s *S3BlobStore) Put(ctx context.Context, key string, data io.Reader, size int64) error {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.key(key)),
		Body:   data,
	})
	if err != nil {
		return fmt.Errorf("[s3-storage] erro no upload de s3://%s/%s (%d bytes): %w", s.Bucket, s.key(key), size, err)
	}
	return nil
}

func (s *S3BlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.key(key)),
	})
	if err != nil {
		return nil, fmt.Errorf("[s3-storage] erro ao ler s3://%s/%s: %w", s.Bucket, s.key(key), err)
	}
	return out.Body, nil
}
