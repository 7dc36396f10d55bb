package storage

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/s3blob"

	"github.com/allisson/resumes/internal/config"
)

// Open resolves the blob driver from configuration and opens it. The
// returned BlobStore is resolved once and owned by the DI container; the
// caller is responsible for calling Close on the bucket at shutdown.
//
// Object-store credentials present selects the S3 driver; anything else
// selects the filesystem driver rooted at StorageRoot.
func Open(ctx context.Context, cfg *config.Config) (BlobStore, *blob.Bucket, error) {
	if cfg.UseObjectStorage() {
		bucket, err := openS3Bucket(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return NewBucketStore(bucket, true), bucket, nil
	}

	bucket, err := fileblob.OpenBucket(cfg.StorageRoot, &fileblob.Options{
		CreateDir: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open filesystem bucket at %s: %w", cfg.StorageRoot, err)
	}

	return NewBucketStore(bucket, false), bucket, nil
}

// openS3Bucket opens an S3-compatible bucket with static credentials and
// an optional custom endpoint (MinIO and friends).
func openS3Bucket(ctx context.Context, cfg *config.Config) (*blob.Bucket, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = &cfg.S3Endpoint
			o.UsePathStyle = true
		}
	})

	bucket, err := s3blob.OpenBucketV2(ctx, client, cfg.S3Bucket, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open s3 bucket %s: %w", cfg.S3Bucket, err)
	}

	return bucket, nil
}
