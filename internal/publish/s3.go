// Package publish uploads generated reports to object storage.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Sentinel errors for publishing.
var (
	ErrNoBucket  = errors.New("s3 bucket required")
	ErrReadFile  = errors.New("reading report for upload")
	ErrUpload    = errors.New("s3 upload failed")
	ErrEmptyPath = errors.New("report path cannot be empty")
)

// DefaultRegion is used when no region is configured.
const DefaultRegion = "us-east-1"

const pdfContentType = "application/pdf"

// S3Config describes an S3-compatible destination (AWS S3 or MinIO).
// Credentials come from the default AWS chain.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	Prefix    string
	PathStyle bool
}

type putObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads report files to a single bucket.
type S3Publisher struct {
	client putObjectAPI
	bucket string
	prefix string
}

// NewS3 builds a publisher from cfg. Extra client options are applied after
// the endpoint and path-style settings.
func NewS3(ctx context.Context, cfg S3Config, optFns ...func(*s3.Options)) (*S3Publisher, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		for _, fn := range optFns {
			fn(o)
		}
	})

	return &S3Publisher{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Publish uploads the file at reportPath and returns its s3:// location.
func (p *S3Publisher) Publish(ctx context.Context, reportPath string) (string, error) {
	if reportPath == "" {
		return "", ErrEmptyPath
	}

	f, err := os.Open(reportPath) // #nosec G304 -- path is the report just written
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadFile, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadFile, err)
	}

	key := ObjectKey(p.prefix, reportPath)
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(pdfContentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpload, err)
	}

	return "s3://" + p.bucket + "/" + key, nil
}

// ObjectKey joins prefix and the base name of reportPath with forward
// slashes, regardless of the host path separator.
func ObjectKey(prefix, reportPath string) string {
	name := filepath.Base(reportPath)
	prefix = strings.Trim(strings.ReplaceAll(prefix, "\\", "/"), "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}
