package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const rawResourceType = "raw"

// NewStorageService creates a new StorageServiceImpl instance.
func NewStorageService(cld *cloudinary.Cloudinary, cloudName string) StorageService {
	return &StorageServiceImpl{
		cld:       cld,
		cloudName: cloudName,
	}
}

// NewCloudinaryStorage builds the storage service from API credentials.
func NewCloudinaryStorage(cloudName, apiKey, apiSecret string) (StorageService, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return NewStorageService(cld, cloudName), nil
}

// UploadFile uploads content as a raw asset. Raw public IDs keep their extension, so
// name is used as given.
func (s *StorageServiceImpl) UploadFile(ctx context.Context, content io.Reader, destFolder, name string) (string, error) {
	uploadParams := uploader.UploadParams{
		Folder:       strings.Trim(destFolder, "/"),
		PublicID:     name,
		ResourceType: rawResourceType,
		Overwrite:    api.Bool(true),
	}
	result, err := s.cld.Upload.Upload(ctx, content, uploadParams)
	if err != nil {
		return "", fmt.Errorf("StorageServiceImpl: failed to upload %s: %w", path.Join(destFolder, name), err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("StorageServiceImpl: upload rejected: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("StorageServiceImpl: no URL returned")
	}
	return result.SecureURL, nil
}
