package upload

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"learn-assist/internal/config"
	"learn-assist/internal/domain"
	"learn-assist/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ObjectPutter is the part of the S3 upload manager the uploader needs.
type ObjectPutter interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3FileUploader implements domain.FileUploader by storing files in a bucket.
type S3FileUploader struct {
	putter ObjectPutter
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3FileUploader creates an uploader using credentials from config or the
// AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY environment, falling back to the default chain.
func NewS3FileUploader(ctx context.Context, cfg config.S3Config, logger *zap.Logger) (*S3FileUploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket cannot be empty")
	}
	accessKey := cfg.AccessKeyID
	secretKey := cfg.SecretAccessKey
	if accessKey == "" || secretKey == "" {
		accessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		secretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey, secretKey, "",
		)))
		logger.Info("S3 uploader using configured credentials", zap.String("region", cfg.Region), zap.String("bucket", cfg.Bucket))
	} else {
		logger.Warn("S3 uploader using default credential chain")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
	})
	return NewS3FileUploaderWithPutter(uploader, cfg.Bucket, cfg.Prefix), nil
}

func NewS3FileUploaderWithPutter(putter ObjectPutter, bucket, prefix string) *S3FileUploader {
	return &S3FileUploader{putter: putter, bucket: bucket, prefix: prefix, now: time.Now}
}

// Upload stores the file under <prefix>/<purpose>/<ulid><ext>; the object key is the file id.
func (u *S3FileUploader) Upload(ctx context.Context, file domain.UploadFile) (*domain.UploadedFile, error) {
	if len(file.Data) == 0 {
		return nil, fmt.Errorf("upload file %q is empty", file.Filename)
	}

	key := path.Join(u.prefix, file.Purpose, util.NewULID()+strings.ToLower(path.Ext(file.Filename)))
	size := int64(len(file.Data))
	_, err := u.putter.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file.Data),
		ContentType:   aws.String(file.ContentType),
		ContentLength: aws.Int64(size),
		Metadata:      map[string]string{"filename": file.Filename},
	})
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}

	return &domain.UploadedFile{
		ID:        key,
		Filename:  file.Filename,
		Bytes:     size,
		CreatedAt: u.now().UTC(),
	}, nil
}
