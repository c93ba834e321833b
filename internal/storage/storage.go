package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage defines the interface for document storage operations. The upload
// routes proxy files into it; everything else only ever sees URLs.
type Storage interface {
	// Save stores a file at the given key
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get retrieves a file from the given key
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file at the given key
	Delete(ctx context.Context, key string) error

	// Exists checks if a file exists at the given key
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns a public URL for the file
	GetURL(ctx context.Context, key string) (string, error)
}

// Config holds storage configuration.
type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // For local storage
	BaseURL    string // Public URL base
	Bucket     string // For S3/R2
	Region     string // For S3
	AccessKey  string // For S3/R2
	SecretKey  string // For S3/R2
	Endpoint   string // For R2 or custom S3
	UseSSL     bool   // For S3/R2
	PublicRead bool   // Make files public by default
}

// NewStorage creates a storage instance based on configuration.
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "s3", "cloudflare_r2":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
