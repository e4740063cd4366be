package utils

import (
	"pocketclass/config"
	"pocketclass/services/storage"
)

// Cloudinary initializes the Cloudinary-backed StorageService from AppConfig.
func Cloudinary() (storage.StorageService, error) {
	cfg := config.AppConfig
	return storage.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
}
