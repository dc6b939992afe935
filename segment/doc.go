// Package segment moves encoded bit-vector segments between memory and a
// blob store.
//
// A Manager frames vectors with the codec package and reads/writes them
// through any blobstore.BlobStore. Bulk transfers run concurrently with a
// bounded worker count and an optional byte-rate limit, and emit structured
// logs via log/slog.
package segment
