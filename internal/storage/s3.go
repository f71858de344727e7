package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Ensure S3Lister implements Lister.
var _ Lister = (*S3Lister)(nil)

// S3Lister lists objects of an S3 (or S3 compatible) bucket.
type S3Lister struct {
	client s3.ListObjectsV2APIClient
}

// NewS3Lister creates a lister using the default AWS credential chain.
func NewS3Lister(ctx context.Context, opts Options) (*S3Lister, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error

	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	if opts.MaxAttempts > 0 {
		loadOpts = append(loadOpts, awsconfig.WithRetryMaxAttempts(opts.MaxAttempts))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}

		o.UsePathStyle = opts.PathStyle
	})

	return NewS3ListerWithClient(client), nil
}

// NewS3ListerWithClient creates a lister with a custom client (useful for testing).
func NewS3ListerWithClient(client s3.ListObjectsV2APIClient) *S3Lister {
	return &S3Lister{client: client}
}

// ListObjects pages through the whole bucket.
func (l *S3Lister) ListObjects(ctx context.Context, bucket string) ([]Object, error) {
	if bucket == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBucket, bucket)
	}

	paginator := s3.NewListObjectsV2Paginator(l.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})

	var objects []Object

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			var noBucket *types.NoSuchBucket
			if errors.As(err, &noBucket) {
				return nil, fmt.Errorf("%w: s3://%s", ErrBucketNotFound, bucket)
			}

			return nil, fmt.Errorf("failed to list s3://%s: %w", bucket, err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil || obj.LastModified == nil {
				return nil, fmt.Errorf("%w: s3://%s: object without key or last-modified time", ErrMalformedListing, bucket)
			}

			objects = append(objects, Object{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: obj.LastModified.UTC().Format(TimestampLayout),
			})
		}
	}

	return objects, nil
}
