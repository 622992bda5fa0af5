package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// LocalUploader writes attachments under Dir. The API server exposes Dir at BaseURL.
type LocalUploader struct {
	Dir     string
	BaseURL string

	now    func() time.Time
	random func() string
}

func NewLocalUploader(dir, baseURL string) *LocalUploader {
	return &LocalUploader{Dir: dir, BaseURL: baseURL, now: time.Now, random: randomSuffix}
}

func (u *LocalUploader) Upload(ctx context.Context, f File, folder string) (string, error) {
	key := ObjectKey(folder, f.Name, u.now(), u.random())
	if len(f.Data) == 0 {
		return "", newUploadError(key, ErrEmptyFile)
	}
	if err := ctx.Err(); err != nil {
		return "", newUploadError(key, err)
	}
	path := filepath.Join(u.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", newUploadError(key, fmt.Errorf("create folder: %w", err))
	}
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return "", newUploadError(key, err)
	}
	return joinURL(u.BaseURL, key), nil
}
