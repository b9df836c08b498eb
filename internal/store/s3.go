package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"mailorg/internal/config"
	"mailorg/internal/mailorg"
)

// S3Client is the subset of the S3 API used by S3Store.
type S3Client interface {
	manager.UploadAPIClient
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// S3Store keeps content as objects named <prefix>/<kind-dir>/<id>[ext].
// Objects are written whole through the upload manager, so a concurrent
// reader sees either nothing or the complete object.
type S3Store struct {
	client   S3Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewS3Store wraps an existing client.
func NewS3Store(client S3Client, bucket, prefix string) *S3Store {
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		prefix:   prefix,
	}
}

// NewS3StoreFromConfig builds an S3 client from the store config. Without
// static credentials the default AWS credential chain applies.
func NewS3StoreFromConfig(ctx context.Context, cfg config.StoreConfig) (*S3Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Store(client, cfg.S3Bucket, cfg.S3Prefix), nil
}

func (s *S3Store) key(kind mailorg.ContentKind, id string) (string, error) {
	name, err := objectName(kind, id)
	if err != nil {
		return "", err
	}
	if s.prefix == "" {
		return name, nil
	}
	return path.Join(s.prefix, name), nil
}

// Put uploads content unless an object already exists under the key.
func (s *S3Store) Put(ctx context.Context, kind mailorg.ContentKind, id string, r io.Reader, size int64) (string, error) {
	key, err := s.key(kind, id)
	if err != nil {
		return "", err
	}
	ref := "s3://" + s.bucket + "/" + key

	exists, err := s.exists(ctx, key)
	if err != nil {
		return "", err
	}
	if exists {
		if _, err := io.Copy(io.Discard, r); err != nil {
			return "", fmt.Errorf("failed to read content: %w", err)
		}
		return ref, nil
	}

	counter := &countingReader{r: r}
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   counter,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	if counter.n != size {
		return "", fmt.Errorf("size mismatch: expected %d bytes, got %d", size, counter.n)
	}
	return ref, nil
}

// Get streams the object stored under (kind, id) to w.
func (s *S3Store) Get(ctx context.Context, kind mailorg.ContentKind, id string, w io.Writer) error {
	key, err := s.key(kind, id)
	if err != nil {
		return err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return notFound(kind, id)
		}
		return fmt.Errorf("getting %s: %w", key, err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) Exists(ctx context.Context, kind mailorg.ContentKind, id string) (bool, error) {
	key, err := s.key(kind, id)
	if err != nil {
		return false, err
	}
	return s.exists(ctx, key)
}

func (s *S3Store) exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s: %w", key, err)
}

// ValidateSetup checks that the bucket exists and is reachable.
func (s *S3Store) ValidateSetup(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", s.bucket, err)
	}
	return nil
}

// isNotFound matches both the HeadObject (NotFound) and GetObject
// (NoSuchKey) flavors of a missing object.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Compile-time check that S3Store implements mailorg.ContentStore interface
var _ mailorg.ContentStore = (*S3Store)(nil)
