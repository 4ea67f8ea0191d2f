package services

import (
	"bytes"
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchcms/models"
)

type fakeObjects struct {
	bucket, name, contentType string
	body                      []byte
	err                       error
}

func (f *fakeObjects) PutObject(_ context.Context, bucket, name string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.err != nil {
		return minio.UploadInfo{}, f.err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.bucket, f.name, f.contentType, f.body = bucket, name, opts.ContentType, body
	return minio.UploadInfo{Bucket: bucket, Key: name, Size: int64(len(body))}, nil
}

func TestUploadImage(t *testing.T) {
	objects := &fakeObjects{}
	svc := NewUploadService(objects, "church-cms", "http://localhost:9000/church-cms/", quietLogger())
	content := []byte("\x89PNG fake image")

	info, err := svc.Upload(context.Background(), editor, bytes.NewReader(content), "Logo.PNG", "image/png", int64(len(content)), "")
	require.NoError(t, err)

	assert.Equal(t, "church-cms", objects.bucket)
	assert.Equal(t, content, objects.body, "the hash pass rewinds the file")
	assert.Equal(t, "image/png", objects.contentType)
	assert.True(t, strings.HasPrefix(info.FileName, "images/"))
	assert.True(t, strings.HasSuffix(info.FileName, ".png"))
	assert.Equal(t, "http://localhost:9000/church-cms/"+info.FileName, info.URL)
	assert.Equal(t, fmt.Sprintf("%x", md5.Sum(content)), info.Hash)
	assert.Equal(t, int64(len(content)), info.FileSize)
}

func TestUploadFolderIsConfined(t *testing.T) {
	objects := &fakeObjects{}
	svc := NewUploadService(objects, "b", "http://cdn", quietLogger())
	content := []byte("gif")
	info, err := svc.Upload(context.Background(), pastor, bytes.NewReader(content), "a.gif", "image/gif", 3, "../../etc/sermons")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(info.FileName, "etc/sermons/"), info.FileName)
}

func TestUploadExtensionFollowsContentType(t *testing.T) {
	objects := &fakeObjects{}
	svc := NewUploadService(objects, "b", "http://cdn", quietLogger())
	info, err := svc.Upload(context.Background(), editor, bytes.NewReader([]byte("png")), "x.html", "image/png", 3, "")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(info.FileName, ".png"), info.FileName)
}

func TestUploadRejections(t *testing.T) {
	content := []byte("data")
	tests := []struct {
		name        string
		svc         *UploadService
		contentType string
		size        int64
		want        models.ErrorKind
	}{
		{"not configured", NewUploadService(nil, "b", "", quietLogger()), "image/png", 4, models.KindUnavailable},
		{"not an image", NewUploadService(&fakeObjects{}, "b", "", quietLogger()), "application/pdf", 4, models.KindValidation},
		{"too large", NewUploadService(&fakeObjects{}, "b", "", quietLogger()), "image/png", MaxUploadSize + 1, models.KindValidation},
		{"empty", NewUploadService(&fakeObjects{}, "b", "", quietLogger()), "image/png", 0, models.KindValidation},
		{"storage fails", NewUploadService(&fakeObjects{err: errors.New("bucket gone")}, "b", "", quietLogger()), "image/png", 4, models.KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.Upload(context.Background(), editor, bytes.NewReader(content), "a.png", tt.contentType, tt.size, "")
			assertKind(t, tt.want, err)
		})
	}
}

func TestUploadRequiresStaff(t *testing.T) {
	svc := NewUploadService(&fakeObjects{}, "b", "", quietLogger())
	_, err := svc.Upload(context.Background(), nil, bytes.NewReader([]byte("x")), "a.png", "image/png", 1, "")
	assertKind(t, models.KindUnauthenticated, err)
	_, err = svc.Upload(context.Background(), viewer, bytes.NewReader([]byte("x")), "a.png", "image/png", 1, "")
	assertKind(t, models.KindForbidden, err)
}
