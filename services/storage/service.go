package storage

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/opentracing/opentracing-go"

	"github.com/mailpin/mailpin/interfaces"
	"github.com/mailpin/mailpin/internal/tracing"
	"github.com/mailpin/mailpin/services/storage/aws_client"
)

// ObjectStorageService implements StorageService on top of an S3 bucket
type ObjectStorageService struct {
	client     aws_client.S3Client
	bucketName string
}

// NewObjectStorageService creates a bucket-backed storage service
func NewObjectStorageService(client aws_client.S3Client, bucketName string) interfaces.StorageService {
	return &ObjectStorageService{
		client:     client,
		bucketName: bucketName,
	}
}

// Upload stores data in object storage
func (s *ObjectStorageService) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ObjectStorageService.Upload")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	uploadInput := s3manager.UploadInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	}

	return s.client.Upload(ctx, uploadInput)
}

// Download retrieves data from object storage
func (s *ObjectStorageService) Download(ctx context.Context, key string) ([]byte, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ObjectStorageService.Download")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	return s.client.Download(ctx, s.bucketName, key)
}

// Delete removes an object from storage
func (s *ObjectStorageService) Delete(ctx context.Context, key string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ObjectStorageService.Delete")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	return s.client.Delete(ctx, s.bucketName, key)
}

// Exists reports whether an object is present in the bucket
func (s *ObjectStorageService) Exists(ctx context.Context, key string) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "ObjectStorageService.Exists")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)

	return s.client.Exists(ctx, s.bucketName, key)
}
