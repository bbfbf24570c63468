package storage

import (
	"context"
	"io"
)

// Categories of uploaded media
const (
	CategoryPromotionImage = "promotion_image"
	CategoryVideo          = "video"
)

// MaxFileSizes per category, in bytes
var MaxFileSizes = map[string]int64{
	CategoryPromotionImage: 5 * 1024 * 1024,
	CategoryVideo:          200 * 1024 * 1024,
}

// AllowedMimeTypes per category, detected from content
var AllowedMimeTypes = map[string][]string{
	CategoryPromotionImage: {"image/jpeg", "image/png", "image/webp", "image/gif"},
	CategoryVideo:          {"video/mp4", "video/webm", "application/octet-stream"},
}

// Storage is the minimal contract for media backends. Save a file, delete a
// file, get its public URL.
type Storage interface {
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	GetURL(key string) string
}

// Config carries backend settings. An empty AccessKey selects local disk.
type Config struct {
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
	LocalDir    string
	LocalURL    string
}

// New picks the backend from config
func New(cfg Config) (Storage, error) {
	if cfg.S3AccessKey != "" {
		return NewS3Storage(cfg)
	}
	return NewLocalStorage(cfg.LocalDir, cfg.LocalURL)
}
