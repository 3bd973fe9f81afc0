package publisher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3manager "github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/farhanadit/dbkeeper/internal/config"
	"github.com/farhanadit/dbkeeper/internal/domain"
)

// S3 replicates artifacts into a bucket and prunes remote copies past the
// retention cutoff, so the bucket tracks the export directory.
type S3 struct {
	client   *s3.Client
	uploader *s3manager.Uploader
	bucket   string
	prefix   string
}

func NewS3(cfg *config.S3Config) (*S3, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	return &S3{
		client:   client,
		uploader: s3manager.NewUploader(client),
		bucket:   cfg.Bucket,
		prefix:   cfg.Prefix,
	}, nil
}

func (s *S3) Publish(ctx context.Context, artifact domain.Artifact) error {
	file, err := os.Open(artifact.Path)
	if err != nil {
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer file.Close()

	key := path.Join(s.prefix, artifact.Filename)
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   file,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to s3: %w", err)
	}

	return nil
}

// Prune deletes bucket objects last modified before cutoff and returns how
// many were removed. Individual delete failures don't stop the scan.
func (s *S3) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	resp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: &s.bucket,
		Prefix: &s.prefix,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list s3 objects: %w", err)
	}

	deleted := 0
	var errs []error
	for _, obj := range resp.Contents {
		if obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
			continue
		}
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: &s.bucket,
			Key:    obj.Key,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", *obj.Key, err))
			continue
		}
		deleted++
	}

	return deleted, errors.Join(errs...)
}

func (s *S3) Name() string {
	return "s3"
}
