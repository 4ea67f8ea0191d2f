package config

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// InitMinIO connects to the object store and creates the bucket when missing.
// It returns a nil client when no endpoint is configured.
func InitMinIO(ctx context.Context, c MinIOConfig, log *logrus.Logger) (*minio.Client, error) {
	if c.Endpoint == "" {
		log.Info("MINIO_ENDPOINT not set, image uploads disabled")
		return nil, nil
	}

	client, err := minio.New(c.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKeyID, c.SecretAccessKey, ""),
		Secure: c.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, c.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", c.BucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, c.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", c.BucketName, err)
		}
		log.WithField("bucket", c.BucketName).Info("created bucket")
	}

	log.WithField("endpoint", c.Endpoint).Info("MinIO client ready")
	return client, nil
}
