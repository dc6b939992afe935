// Package s3 implements blobstore.BlobStore on Amazon S3.
//
// Blobs are stored under an optional key prefix. Reads use ranged GETs;
// writes stream through the S3 upload manager. Construct a Store from an
// existing client with New, or from the default AWS credential chain with
// NewFromDefaultConfig.
package s3
