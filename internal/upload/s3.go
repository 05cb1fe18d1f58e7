package upload

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"chemmarket/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

// Uploader stores product and request images in an S3 bucket.
type Uploader struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

var UploaderTracer = otel.Tracer("Uploader")

func NewUploader(ctx context.Context, region, bucket string) (*Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &Uploader{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// Upload stores the file and returns its object key. The original filename is
// sanitized and prefixed with a random id so uploads never collide.
func (u *Uploader) Upload(ctx context.Context, file io.Reader, filename, contentType string) (string, error) {
	ctx, span := UploaderTracer.Start(ctx, "Uploader.Upload")
	defer span.End()
	logger.Info(ctx, "Upload")

	safe := unsafeKeyChars.ReplaceAllString(strings.ReplaceAll(filename, " ", "_"), "")
	key := uuid.NewString() + "_" + safe

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return key, nil
}

// PresignedURL returns a time-limited download link for an object key.
func (u *Uploader) PresignedURL(ctx context.Context, key string) (string, error) {
	ctx, span := UploaderTracer.Start(ctx, "Uploader.PresignedURL")
	defer span.End()

	request, err := u.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(1*time.Hour))
	if err != nil {
		return "", fmt.Errorf("failed to sign request: %w", err)
	}
	return request.URL, nil
}
