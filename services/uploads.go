package services

import (
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/sirupsen/logrus"

	"churchcms/access"
	"churchcms/models"
)

// ObjectStore is the part of *minio.Client used for uploads.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// FileInfo describes a stored upload.
type FileInfo struct {
	FileName    string    `json:"fileName"`
	FileSize    int64     `json:"fileSize"`
	ContentType string    `json:"contentType"`
	URL         string    `json:"url"`
	Hash        string    `json:"hash"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// MaxUploadSize caps a single image upload.
const MaxUploadSize = 10 << 20

var imageTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/jpg":     ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

type UploadService struct {
	objects ObjectStore
	bucket  string
	baseURL string
	log     *logrus.Logger
	now     func() time.Time
}

// NewUploadService returns the image upload service. objects may be nil when
// object storage is not configured; uploads then fail as unavailable.
// baseURL is the public prefix of the bucket, "http://localhost:9000/church-cms".
func NewUploadService(objects ObjectStore, bucket, baseURL string, log *logrus.Logger) *UploadService {
	return &UploadService{
		objects: objects,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
		now:     time.Now,
	}
}

func (s *UploadService) Available() bool { return s.objects != nil }

// Upload stores an image under folder/<uuid><ext> and returns where it can be
// fetched. The extension follows the content type, never the client filename.
func (s *UploadService) Upload(ctx context.Context, p *access.Principal, file io.ReadSeeker, filename, contentType string, size int64, folder string) (*FileInfo, error) {
	if err := access.Check(p, access.UploadCreate); err != nil {
		return nil, err
	}
	if s.objects == nil {
		return nil, models.NewUnavailableError("file storage is not configured")
	}
	ext, ok := imageTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, models.NewValidationError("only image files are supported", fmt.Sprintf("content type %q is not allowed", contentType))
	}
	if size <= 0 || size > MaxUploadSize {
		return nil, models.NewValidationError("invalid file size", fmt.Sprintf("file must be between 1 byte and %d MB", MaxUploadSize>>20))
	}
	folder = cleanFolder(folder)

	h := md5.New()
	if _, err := io.Copy(h, file); err != nil {
		return nil, models.NewValidationError("unreadable file", err.Error())
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, models.NewInternalError(err)
	}

	name := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)
	info, err := s.objects.PutObject(ctx, s.bucket, name, file, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("put object %s: %w", name, err))
	}
	s.log.WithFields(logrus.Fields{"object": name, "original": filename, "size": info.Size}).Info("file uploaded")
	return &FileInfo{
		FileName:    name,
		FileSize:    info.Size,
		ContentType: contentType,
		URL:         s.baseURL + "/" + name,
		Hash:        fmt.Sprintf("%x", h.Sum(nil)),
		UploadedAt:  s.now().UTC(),
	}, nil
}

func cleanFolder(folder string) string {
	folder = strings.Trim(filepath.ToSlash(filepath.Clean("/"+folder)), "/")
	if folder == "" || folder == "." {
		return "images"
	}
	return folder
}
