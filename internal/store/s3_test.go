package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"mailorg/internal/mailorg"
)

// fakeS3 keeps objects in memory and answers like S3 for the calls S3Store
// makes. Multipart calls are not expected for the small objects used here.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	f.puts++
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "The specified key does not exist."}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if aws.ToString(in.Bucket) != "mail" {
		return nil, &smithy.GenericAPIError{Code: "NotFound"}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, fmt.Errorf("unexpected multipart upload")
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, fmt.Errorf("unexpected multipart upload")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, fmt.Errorf("unexpected multipart upload")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return &s3.AbortMultipartUploadOutput{}, nil
}

func TestS3Store(t *testing.T) {
	contentStoreContract(t, func(t *testing.T) mailorg.ContentStore {
		return NewS3Store(newFakeS3(), "mail", "archive")
	})
}

func TestS3Store_Keys(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	s := NewS3Store(client, "mail", "acme/2024")

	ref, err := s.Put(ctx, mailorg.KindBodyText, "b1", bytes.NewReader([]byte("hi")), 2)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if ref != "s3://mail/acme/2024/bodies/b1.bod" {
		t.Errorf("ref = %q", ref)
	}
	if _, ok := client.objects["mail/acme/2024/bodies/b1.bod"]; !ok {
		t.Errorf("object not stored under prefixed key, have %v", client.objects)
	}

	if _, err := s.Put(ctx, mailorg.KindBodyText, "b1", bytes.NewReader([]byte("hi")), 2); err != nil {
		t.Fatalf("second Put() error = %v", err)
	}
	if client.puts != 1 {
		t.Errorf("PutObject called %d times, want 1", client.puts)
	}
}

func TestS3Store_ValidateSetup(t *testing.T) {
	s := NewS3Store(newFakeS3(), "missing-bucket", "")
	if err := s.ValidateSetup(context.Background()); err == nil {
		t.Error("ValidateSetup() expected error for missing bucket")
	}
}
