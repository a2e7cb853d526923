package export

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
)

// S3Config addresses the bucket. Endpoint is set for MinIO and other
// S3-compatible stores; it switches the client to path-style addressing.
type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads exports with PutObject.
type S3Sink struct {
	api    putObjectAPI
	bucket string
	prefix string
	now    func() time.Time
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3Sink loads the AWS configuration and builds the client. Static keys
// are used when both are set, otherwise the default credential chain.
func NewS3Sink(ctx context.Context, c S3Config) (*S3Sink, error) {
	if c.Bucket == "" {
		return nil, fmt.Errorf("s3 export: bucket is required")
	}

	opts := []func(*config.LoadOptions) error{}
	if c.Region != "" {
		opts = append(opts, config.WithRegion(c.Region))
	}
	if c.AccessKey != "" && c.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}
	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newS3Sink(client, c.Bucket, c.Prefix), nil
}

func newS3Sink(api putObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{api: api, bucket: bucket, prefix: prefix, now: time.Now}
}

// key places exports under prefix/yyyy/mm/dd/name.
func (s *S3Sink) key(name string) string {
	d := s.now()
	return path.Join(s.prefix, fmt.Sprintf("%04d/%02d/%02d", d.Year(), d.Month(), d.Day()), name)
}

// Put uploads e and returns its s3:// location.
func (s *S3Sink) Put(ctx context.Context, e *models.Export) (string, error) {
	name, err := safeName(e.Name)
	if err != nil {
		return "", err
	}
	key := s.key(name)

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(e.Data),
	}
	if e.ContentType != "" {
		in.ContentType = aws.String(e.ContentType)
	}
	if _, err := s.api.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}
