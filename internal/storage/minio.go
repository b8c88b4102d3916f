// Package storage хранит изображения снимков.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"investigation-server/internal/models"
	"investigation-server/internal/photography"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const defaultURLExpiry = 15 * time.Minute

// objectClient - методы *minio.Client, которые использует хранилище.
type objectClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// MinioConfig - параметры подключения к S3-совместимому хранилищу.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

var _ photography.PhotoStore = (*MinioPhotoStore)(nil)

// MinioPhotoStore кладет снимки в бакет и выдает на них подписанные ссылки.
type MinioPhotoStore struct {
	client objectClient
	bucket string
	expiry time.Duration
	logger *zap.Logger
}

// NewMinioPhotoStore подключается к MinIO и создает бакет, если его нет.
func NewMinioPhotoStore(ctx context.Context, cfg MinioConfig, logger *zap.Logger) (*MinioPhotoStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	s := newMinioPhotoStore(client, cfg.Bucket, cfg.URLExpiry, logger)
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func newMinioPhotoStore(client objectClient, bucket string, expiry time.Duration, logger *zap.Logger) *MinioPhotoStore {
	if expiry <= 0 {
		expiry = defaultURLExpiry
	}
	return &MinioPhotoStore{client: client, bucket: bucket, expiry: expiry, logger: logger.Named("MinioPhotoStore")}
}

func (s *MinioPhotoStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("Bucket created", zap.String("bucket", s.bucket))
	return nil
}

// Save сохраняет изображение и возвращает имя объекта.
func (s *MinioPhotoStore) Save(ctx context.Context, key photography.PhotoKey, img photography.Image) (string, error) {
	name := objectName(key, img.ContentType)
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(img.Data), int64(len(img.Data)),
		minio.PutObjectOptions{ContentType: contentTypeOrDefault(img.ContentType)})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo %s: %w", name, err)
	}
	s.logger.Debug("Photo uploaded", zap.String("object", name), zap.Int("bytes", len(img.Data)))
	return name, nil
}

// URL выдает временную ссылку на снимок.
func (s *MinioPhotoStore) URL(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", models.ErrNotFound
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, ref, s.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign photo %s: %w", ref, err)
	}
	return u.String(), nil
}

var unsafeChars = regexp.MustCompile(`[^a-z0-9]+`)

func objectName(key photography.PhotoKey, contentType string) string {
	slug := strings.Trim(unsafeChars.ReplaceAllString(strings.ToLower(key.ObjectName), "-"), "-")
	if slug == "" {
		slug = "photo"
	}
	file := fmt.Sprintf("%s-%s%s", slug, uuid.NewString()[:8], extension(contentType))
	return path.Join("sessions", key.SessionID.String(), fmt.Sprintf("day-%d", key.Day), file)
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}

func contentTypeOrDefault(ct string) string {
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
