package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage persists uploaded files and returns a URL they can be served
// from. Two implementations exist: local disk behind a static mount and
// S3 with public-read objects, selected by S3_BUCKET_STORAGE.
type Storage interface {
	Save(ctx context.Context, filename, contentType string, content io.Reader) (url string, err error)
}

func NewStorage(ctx context.Context, config *Config) (Storage, error) {
	if config.UseS3 {
		return NewS3Storage(ctx, config)
	}
	return NewLocalStorage(config), nil
}

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

// UniqueFilename derives a collision-resistant stored name from the
// uploaded filename: kebab-cased base, upload date and a short random
// suffix, keeping the original extension.
func UniqueFilename(original string) string {
	extension := filepath.Ext(original)
	if extension == "" {
		extension = ".bin"
	}
	base := strings.TrimSuffix(filepath.Base(original), extension)
	slug := strings.Trim(nonAlphaNum.ReplaceAllString(strings.ToLower(base), "-"), "-")
	if slug == "" {
		slug = uuid.NewString()
	}
	return fmt.Sprintf("%s-%s-%s%s", slug, time.Now().Format("20060102"), uuid.NewString()[:6], extension)
}
