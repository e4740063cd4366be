package storage

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
)

// StorageService defines the interface for storage operations.
type StorageService interface {
	// UploadFile stores the content under destFolder/name and returns a download URL.
	UploadFile(ctx context.Context, content io.Reader, destFolder, name string) (string, error)
}

// StorageServiceImpl stores raw files in Cloudinary.
type StorageServiceImpl struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}
