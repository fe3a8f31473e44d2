package storage

import (
	"context"   // Context for upload calls
	"errors"    // Error values
	"mime/multipart" // Uploaded file handles

	"github.com/cloudinary/cloudinary-go/v2"                 // Cloudinary SDK
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"    // Cloudinary upload API
)

// ErrEmptyURL is returned when the image store accepts the upload but yields no URL
var ErrEmptyURL = errors.New("image store returned an empty URL")

// Uploader stores an image under a folder tag and returns its durable URL
type Uploader interface {
	Upload(ctx context.Context, file multipart.File, folder string) (string, error)
}

// CloudinaryUploader uploads images to Cloudinary
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary // Cloudinary client
}

// NewCloudinaryUploader builds an uploader from a cloudinary:// connection URL
func NewCloudinaryUploader(url string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(url) // Create the Cloudinary client
	if err != nil {
		return nil, err // Return error if credentials are invalid
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// Upload sends the file to Cloudinary and returns the secure URL
func (u *CloudinaryUploader) Upload(ctx context.Context, file multipart.File, folder string) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: folder, // Folder tag, e.g. "ecopontos" or "utilizacoes"
	})
	if err != nil {
		return "", err // Upload failed
	}
	// Cloudinary reports some failures in the response body instead of err
	if resp.SecureURL == "" {
		return "", ErrEmptyURL
	}
	return resp.SecureURL, nil // Durable image URL
}
