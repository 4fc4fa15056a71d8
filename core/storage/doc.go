// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small interface so merges can read
// and write .pxf revisions kept in a bucket instead of on the local disk.
// Both AWS S3 and self-hosted MinIO instances work.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easy to mock storage interactions in unit tests (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - GetObject: Retrieves a revision as a stream.
//   - PutObject: Uploads merged output.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "fonts")
package storage
