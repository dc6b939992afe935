package minio

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/hupe1980/bitvec/blobstore"
)

// Store implements blobstore.BlobStore for MinIO and S3-compatible
// storage.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// New creates a MinIO blob store. rootPrefix is prepended to all keys
// (e.g. "segments/").
func New(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open opens a blob for reading.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.key(name)

	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.Code == "NotFound" {
			return nil, blobstore.ErrNotFound
		}
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	return &minioBlob{obj: obj, size: info.Size}, nil
}

// Put writes a blob.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

// Delete removes a blob. Object-store deletes are idempotent.
func (s *Store) Delete(ctx context.Context, name string) error {
	return s.client.RemoveObject(ctx, s.bucket, s.key(name), minio.RemoveObjectOptions{})
}

// List returns the names of all blobs with the given prefix, sorted
// (listing is already lexicographic).
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.key(prefix),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := obj.Key
		if s.prefix != "" {
			name = strings.TrimPrefix(strings.TrimPrefix(name, s.prefix), "/")
		}
		names = append(names, name)
	}

	return names, nil
}

// minioBlob wraps a minio object, which already supports ranged reads.
type minioBlob struct {
	obj  *minio.Object
	size int64
}

func (b *minioBlob) ReadAt(p []byte, off int64) (int, error) {
	return b.obj.ReadAt(p, off)
}

func (b *minioBlob) Close() error { return b.obj.Close() }

func (b *minioBlob) Size() int64 { return b.size }
