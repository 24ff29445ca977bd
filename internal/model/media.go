package model

import "errors"

// Post image constraints. Uploads are normalized to bounded JPEGs before
// they reach object storage.
const (
	MaxPostImageSizeBytes = 10 * 1024 * 1024
	PostImageMaxWidth     = 1080
	PostImageFolder       = "posts"
	PostImageExt          = ".jpg"
	PostImageCacheControl = "public, max-age=31536000"
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

// IsAllowedImageType reports whether the content type may be uploaded.
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

// UploadResult is the outcome of a successful image upload.
type UploadResult struct {
	URL string
	Key string
}

// Media errors
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("unsupported image type")
	ErrUploadsDisabled  = errors.New("image uploads are not configured")
)
