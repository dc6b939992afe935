// Package minio implements blobstore.BlobStore for MinIO and other
// S3-compatible object stores reachable through the minio-go client.
package minio
