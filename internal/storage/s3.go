package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Keys embed a uuid, so an object never changes once written.
const immutableCache = "public, max-age=31536000, immutable"

// S3 publishes product images to a bucket served from PublicBaseURL.
type S3 struct {
	client  *s3.Client
	bucket  string
	prefix  string
	baseURL string
}

type S3Config struct {
	Region        string
	Bucket        string
	Prefix        string
	PublicBaseURL string
	Endpoint      string
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			ep := cfg.Endpoint
			o.BaseEndpoint = &ep
			o.UsePathStyle = true
		}
	})
	return &S3{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *S3) objectKey(in PutInput) string {
	if s.prefix == "" {
		return objectKey(in)
	}
	return s.prefix + "/" + objectKey(in)
}

func (s *S3) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	key := s.objectKey(in)
	cache := immutableCache
	obj := &s3.PutObjectInput{
		Bucket:       &s.bucket,
		Key:          &key,
		Body:         r,
		ContentType:  &in.ContentType,
		CacheControl: &cache,
	}
	if in.Size > 0 {
		obj.ContentLength = &in.Size
	}
	if _, err := s.client.PutObject(ctx, obj); err != nil {
		return PutResult{}, fmt.Errorf("s3 put %s: %w", key, err)
	}
	return PutResult{Key: key, URL: s.baseURL + "/" + key}, nil
}

// Delete removes key. S3 treats a missing key as success.
func (s *S3) Delete(ctx context.Context, key string) error {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key}); err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

func (s *S3) String() string { return fmt.Sprintf("s3(%s/%s)", s.bucket, s.prefix) }
