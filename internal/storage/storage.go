package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
)

// File is a binary attachment on its way to the bucket.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Uploader puts a file under folder and returns a URL anyone can open.
type Uploader interface {
	Upload(ctx context.Context, f File, folder string) (string, error)
}

var ErrEmptyFile = errors.New("file data is empty")

// UploadError carries what the storage provider said about a failed upload.
type UploadError struct {
	Key     string
	Code    int
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("upload %s: %d %s", e.Key, e.Code, e.Message)
	}
	return fmt.Sprintf("upload %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

func newUploadError(key string, err error) *UploadError {
	ue := &UploadError{Key: key, Err: err, Message: err.Error()}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		ue.Code = gerr.Code
		ue.Message = gerr.Message
	}
	return ue
}

// ObjectKey builds "{folder}/{unixMillis}-{random}.{ext}". The extension is whatever follows the
// last dot of the original name, or the whole name when it has none.
func ObjectKey(folder, fileName string, now time.Time, random string) string {
	ext := fileName
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		ext = fileName[i+1:]
	}
	return fmt.Sprintf("%s/%d-%s.%s", folder, now.UnixMilli(), random, ext)
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// joinURL appends an object key to a base URL, escaping each path segment.
func joinURL(base, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")
}

// DetectContentType guesses a MIME type from the file extension.
func DetectContentType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	types := map[string]string{
		".pdf":  "application/pdf",
		".doc":  "application/msword",
		".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		".odt":  "application/vnd.oasis.opendocument.text",
		".rtf":  "application/rtf",
		".txt":  "text/plain",
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".zip":  "application/zip",
	}
	if ct, ok := types[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
