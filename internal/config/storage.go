package config

import (
	"os"
	"sync"
)

type StorageConfig struct {
	Dir     string
	BaseURL string
}

var (
	storageConfig *StorageConfig
	storageOnce   sync.Once
)

func LoadStorageConfig() *StorageConfig {
	storageOnce.Do(func() {
		dir := os.Getenv("STORAGE_DIR")
		if dir == "" {
			dir = "./storage/reports"
		}
		storageConfig = &StorageConfig{
			Dir:     dir,
			BaseURL: os.Getenv("STORAGE_BASE_URL"),
		}
	})
	return storageConfig
}
