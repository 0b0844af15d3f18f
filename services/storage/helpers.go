package storage

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/pkg/errors"

	"github.com/mailpin/mailpin/config"
	"github.com/mailpin/mailpin/interfaces"
	"github.com/mailpin/mailpin/services/storage/aws_client"
)

// NewS3StorageService creates a StorageService configured for AWS S3
func NewS3StorageService(awsRegion, accessKeyID, accessKeySecret, bucketName string) interfaces.StorageService {
	s3Client := aws_client.NewS3Client(&aws.Config{
		Region:      aws.String(awsRegion),
		Credentials: credentials.NewStaticCredentials(accessKeyID, accessKeySecret, ""),
	})

	return NewObjectStorageService(s3Client, bucketName)
}

// NewAttachmentStorage builds the storage backend selected by config
func NewAttachmentStorage(cfg *config.StorageConfig) (interfaces.StorageService, error) {
	switch cfg.Backend {
	case "local", "":
		return NewLocalStorageService(cfg.LocalDir)
	case "s3":
		return NewS3StorageService(cfg.S3Region, cfg.S3AccessKeyID, cfg.S3AccessSecret, cfg.S3Bucket), nil
	default:
		return nil, errors.Errorf("unknown attachment storage backend %q", cfg.Backend)
	}
}
