// SPDX-License-Identifier: EPL-2.0

package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultS3Region is used when S3Config.Region is empty. S3 compatible
// stores that ignore regions accept it.
const DefaultS3Region = "auto"

// S3Config addresses a bucket. Endpoint selects a non-AWS store and turns
// on path-style addressing.
type S3Config struct {
	Bucket          string `json:"bucket"`
	Region          string `json:"region"`
	Endpoint        string `json:"endpoint" validate:"omitempty,url"`
	AccessKeyID     string `json:"access_key_id" validate:"required_with=Bucket"`
	SecretAccessKey string `json:"secret_access_key" validate:"required_with=Bucket"`
	Prefix          string `json:"prefix"`
}

// IsConfigured reports whether the bucket and both keys are set.
func (c S3Config) IsConfigured() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// objectPutter is the part of *s3.Client the sink uses.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads exports with PutObject.
type S3Sink struct {
	cfg    S3Config
	client objectPutter
	logger *slog.Logger
}

func newS3Client(cfg S3Config) *s3.Client {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	region := cfg.Region
	if region == "" {
		region = DefaultS3Region
	}

	options := []func(*s3.Options){
		func(o *s3.Options) {
			o.Credentials = creds
			o.Region = region
		},
	}
	if cfg.Endpoint != "" {
		options = append(options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	return s3.New(s3.Options{}, options...)
}

// NewS3Sink builds a client from static credentials.
func NewS3Sink(cfg S3Config, logger *slog.Logger) (*S3Sink, error) {
	if !cfg.IsConfigured() {
		return nil, ErrS3NotConfigured
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Sink{cfg: cfg, client: newS3Client(cfg), logger: logger}, nil
}

// Key returns the object key name maps to.
func (s *S3Sink) Key(name string) (string, error) {
	rel, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if s.cfg.Prefix == "" {
		return rel, nil
	}
	return path.Join(s.cfg.Prefix, rel), nil
}

// Put uploads data and returns an s3:// URI.
func (s *S3Sink) Put(ctx context.Context, name string, data []byte) (string, error) {
	key, err := s.Key(name)
	if err != nil {
		return "", err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("audio/wav"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	s.logger.Info("uploaded export", "bucket", s.cfg.Bucket, "key", key, "bytes", len(data))
	return fmt.Sprintf("s3://%s/%s", s.cfg.Bucket, key), nil
}
