package storage

import (
	"context"
	"errors"
)

// Upload folders used by the controllers.
const (
	FolderAvatars  = "avatars"
	FolderBanners  = "banners"
	FolderPosts    = "post"
	FolderComments = "comments"
	FolderCV       = "cv"
)

var (
	ErrInvalidDataURL = errors.New("payload is not a valid data URL")
)

// UploadResult carries the stored-object identifier and the public URL,
// both of which are persisted on the owning document.
type UploadResult struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
}

// FileStorage defines the interface for object storage operations. The
// controllers hand over raw base64 data URLs and a target folder; the
// implementation stores the decoded bytes and returns where they live.
type FileStorage interface {
	// UploadDataURL decodes a base64 data URL and stores it under the
	// given folder with a generated object key.
	UploadDataURL(ctx context.Context, dataURL string, folder string) (*UploadResult, error)

	// DeleteObject removes a previously stored object. Used when an
	// avatar or banner is replaced.
	DeleteObject(ctx context.Context, objectKey string) error
}
