// Package blobstore abstracts storage of encoded bit-vector segments.
//
// A BlobStore holds immutable named blobs. Backends included here are an
// in-memory store (tests) and a local filesystem store (memory-mapped
// reads); the s3 and minio subpackages provide cloud backends with the same
// contract.
package blobstore
