package module

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// GetObjectAPI is the part of the S3 client used by S3Source.
// *s3.Client satisfies it.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads modules from an S3 bucket.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	src := module.NewS3Source(s3.NewFromConfig(cfg), "my-bucket", "components/")
//	loader := module.NewMarkupLoader(src)
type S3Source struct {
	client GetObjectAPI
	bucket string
	prefix string
}

// NewS3Source creates a Source reading prefix+specifier keys from bucket.
func NewS3Source(client GetObjectAPI, bucket, prefix string) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Key returns the object key for spec.
func (s *S3Source) Key(spec string) (string, error) {
	name, err := modulePath(spec)
	if err != nil {
		return "", err
	}
	return s.prefix + name, nil
}

// Open implements Source.
func (s *S3Source) Open(ctx context.Context, spec string) (io.ReadCloser, error) {
	key, err := s.Key(spec)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noKey) || errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, s.bucket, key)
		}
		return nil, fmt.Errorf("s3 get %s: %w", key, err)
	}
	return out.Body, nil
}
