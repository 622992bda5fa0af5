package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gcs "google.golang.org/api/storage/v1"
)

const defaultPublicBase = "https://storage.googleapis.com"

// GCSUploader stores attachments in a Google Cloud Storage bucket.
type GCSUploader struct {
	Service    *gcs.Service
	Bucket     string
	PublicBase string

	now    func() time.Time
	random func() string
}

func NewGCSUploader(ctx context.Context, bucket, publicBase string, opts ...option.ClientOption) (*GCSUploader, error) {
	svc, err := gcs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage service: %w", err)
	}
	if publicBase == "" {
		publicBase = defaultPublicBase + "/" + bucket
	}
	return &GCSUploader{
		Service:    svc,
		Bucket:     bucket,
		PublicBase: publicBase,
		now:        time.Now,
		random:     randomSuffix,
	}, nil
}

func (u *GCSUploader) Upload(ctx context.Context, f File, folder string) (string, error) {
	key := ObjectKey(folder, f.Name, u.now(), u.random())
	if len(f.Data) == 0 {
		return "", newUploadError(key, ErrEmptyFile)
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = DetectContentType(f.Name)
	}

	obj := &gcs.Object{Name: key, ContentType: contentType}
	res, err := u.Service.Objects.Insert(u.Bucket, obj).
		Media(bytes.NewReader(f.Data), googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
	if err != nil {
		ue := newUploadError(key, err)
		log.Printf("❌ Upload error details: bucket=%s key=%s code=%d message=%s", u.Bucket, key, ue.Code, ue.Message)
		return "", ue
	}
	if res.Name != "" {
		key = res.Name
	}
	return joinURL(u.PublicBase, key), nil
}
