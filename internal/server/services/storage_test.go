package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/ruedaverde/backend/internal/server/config"
)

func newStorageService() *StorageService {
	cfg := &sc.Config{
		S3Region:          "us-east-1",
		S3AccessKeyID:     "minioadmin",
		S3SecretAccessKey: "minioadmin",
		S3BaseEndpoint:    "http://127.0.0.1:9000",
		S3Bucket:          "ruedaverde",
	}
	return NewStorageService(cfg)
}

func stubPresignClient(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func TestGetRandomStorageKey_ShapeAndUniqueness(t *testing.T) {
	a := GetRandomStorageKey()
	b := GetRandomStorageKey()

	if !strings.HasPrefix(a, "uploads/") {
		t.Fatalf("unexpected key prefix: %q", a)
	}
	if a == b {
		t.Fatalf("two keys must differ: %q", a)
	}
}

func TestGetPresignedPutUrl_Success(t *testing.T) {
	svc := newStorageService()
	stubPresignClient(t)

	origPut := presignPutObject
	t.Cleanup(func() { presignPutObject = origPut })

	var capturedBucket string
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		capturedBucket = *in.Bucket
		return &v4.PresignedHTTPRequest{URL: "http://signed/put/" + *in.Key}, nil
	}

	key, url, err := svc.GetPresignedPutUrl(context.Background())
	if err != nil {
		t.Fatalf("GetPresignedPutUrl error: %v", err)
	}
	if capturedBucket != "ruedaverde" {
		t.Fatalf("bucket not applied: %q", capturedBucket)
	}
	if key == "" || !strings.HasSuffix(url, key) {
		t.Fatalf("url should embed the generated key: key=%q url=%q", key, url)
	}
}

func TestGetPresignedPutUrl_PresignError(t *testing.T) {
	svc := newStorageService()
	stubPresignClient(t)

	origPut := presignPutObject
	t.Cleanup(func() { presignPutObject = origPut })

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign failed")
	}

	if _, _, err := svc.GetPresignedPutUrl(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestGetPresignedGetUrl_Success(t *testing.T) {
	svc := newStorageService()
	stubPresignClient(t)

	origGet := presignGetObject
	t.Cleanup(func() { presignGetObject = origGet })

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://signed/get/" + *in.Key}, nil
	}

	url, err := svc.GetPresignedGetUrl(context.Background(), "uploads/2026/1/1/abc")
	if err != nil {
		t.Fatalf("GetPresignedGetUrl error: %v", err)
	}
	if url != "http://signed/get/uploads/2026/1/1/abc" {
		t.Fatalf("unexpected url: %q", url)
	}
}

func TestStorageService_Enabled(t *testing.T) {
	if !newStorageService().Enabled() {
		t.Fatalf("expected Enabled with credentials set")
	}
	if NewStorageService(&sc.Config{}).Enabled() {
		t.Fatalf("expected disabled without credentials")
	}
}
