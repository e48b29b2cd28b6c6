package storage

import "context"

// MediaUploader defines the interface for uploading user media.
// This interface allows for easy mocking in tests.
type MediaUploader interface {
	UploadMedia(ctx context.Context, data []byte, userID, originalFilename string) (*UploadResult, error)
	DeleteFile(ctx context.Context, key string) error
}

// Ensure S3Uploader implements MediaUploader
var _ MediaUploader = (*S3Uploader)(nil)
