// Package archive uploads rendered briefs to object storage after delivery.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ContentTypeHTML is the content type of archived briefs.
const ContentTypeHTML = "text/html; charset=utf-8"

// Store persists one object per call.
type Store interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// S3Config configures the S3 archive. Region and Profile are optional and fall back to the
// standard AWS config and credential chain.
type S3Config struct {
	Region  string
	Profile string
	Bucket  string
	Prefix  string
	// UsePathStyle forces path-style addressing for S3-compatible providers.
	UsePathStyle bool
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes objects under a bucket and key prefix.
type S3Store struct {
	client putObjectAPI
	bucket string
	prefix string
}

// NewS3Store loads the default AWS configuration with cfg's overrides.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, &Error{Message: "bucket is required"}
	}

	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, &Error{Message: "unable to load AWS config", Cause: err}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return newS3Store(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3Store(client putObjectAPI, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// Put uploads body under the store prefix and returns the s3:// URI of the object.
func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	fullKey := key
	if s.prefix != "" {
		fullKey = s.prefix + "/" + key
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fullKey),
		Body:   bytes.NewReader(body),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", &Error{Message: fmt.Sprintf("failed to upload %s", fullKey), Cause: err}
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, fullKey), nil
}

// Key returns "<variant>/<YYYY-MM-DD>-<runID>.html".
func Key(variant string, at time.Time, runID string) string {
	return path.Join(variant, fmt.Sprintf("%s-%s.html", at.Format("2006-01-02"), runID))
}

// Error represents an archive failure.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("archive: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("archive: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
