package storage

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	apperrors "github.com/allisson/resumes/internal/errors"
)

// bucketStore implements BlobStore on top of a gocloud.dev blob bucket.
// The same implementation serves the filesystem and S3 drivers; driver
// differences live entirely in how the bucket is opened (see factory.go).
type bucketStore struct {
	bucket     *blob.Bucket
	publicRead bool
}

// NewBucketStore wraps an opened bucket as a BlobStore. When publicRead
// is set, writes to S3-compatible backends carry a public-read ACL since
// artifacts served by these keys are meant to be publicly fetchable.
func NewBucketStore(bucket *blob.Bucket, publicRead bool) BlobStore {
	return &bucketStore{
		bucket:     bucket,
		publicRead: publicRead,
	}
}

// Write stores data under key. Intermediate namespaces are created by
// the driver (the filesystem driver is opened with CreateDir).
func (s *bucketStore) Write(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	opts := &blob.WriterOptions{
		ContentType: contentType,
	}
	if s.publicRead {
		opts.BeforeWrite = func(asFunc func(interface{}) bool) error {
			var req *s3.PutObjectInput
			if asFunc(&req) {
				req.ACL = types.ObjectCannedACLPublicRead
			}
			return nil
		}
	}

	if err := s.bucket.WriteAll(ctx, key, data, opts); err != nil {
		return apperrors.Wrap(err, "failed to write blob")
	}

	return nil
}

// Read returns the object stored under key.
func (s *bucketStore) Read(ctx context.Context, key string) (*Object, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "blob not found")
		}
		return nil, apperrors.Wrap(err, "failed to read blob")
	}

	attrs, err := s.bucket.Attributes(ctx, key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read blob attributes")
	}

	return &Object{
		Key:          key,
		Data:         data,
		ContentType:  attrs.ContentType,
		Size:         attrs.Size,
		ETag:         attrs.ETag,
		LastModified: attrs.ModTime,
	}, nil
}

// List returns the keys under prefix in lexical order.
func (s *bucketStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return nil, err
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	keys := []string{}
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to list blobs")
		}
		if obj.IsDir {
			continue
		}
		keys = append(keys, obj.Key)
	}

	return keys, nil
}

// Delete removes the object under keyOrPrefix, or everything under it
// when no exact object exists. Missing keys return (false, nil) so that
// best-effort cleanup can call Delete without checking existence first.
func (s *bucketStore) Delete(ctx context.Context, keyOrPrefix string) (bool, error) {
	if err := ValidatePrefix(keyOrPrefix); err != nil {
		return false, err
	}

	exists, err := s.bucket.Exists(ctx, keyOrPrefix)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check blob existence")
	}

	if exists {
		if err := s.bucket.Delete(ctx, keyOrPrefix); err != nil {
			if gcerrors.Code(err) == gcerrors.NotFound {
				return false, nil
			}
			return false, apperrors.Wrap(err, "failed to delete blob")
		}
		return true, nil
	}

	// Not an exact key: treat as a prefix and remove everything under it.
	keys, err := s.List(ctx, keyOrPrefix)
	if err != nil {
		return false, err
	}

	removed := false
	for _, key := range keys {
		if err := s.bucket.Delete(ctx, key); err != nil {
			if gcerrors.Code(err) == gcerrors.NotFound {
				continue
			}
			return removed, apperrors.Wrap(err, "failed to delete blob under prefix")
		}
		removed = true
	}

	return removed, nil
}

// Healthcheck probes the backend through the driver's accessibility check.
func (s *bucketStore) Healthcheck(ctx context.Context) error {
	accessible, err := s.bucket.IsAccessible(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err.Error())
	}
	if !accessible {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, "storage backend is not accessible")
	}
	return nil
}
