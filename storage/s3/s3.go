// Package s3 stores objects in Amazon S3 or an S3-compatible service.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/kbukum/legalassist/storage"
)

func init() {
	storage.Register(storage.BackendS3, func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return New(ctx, cfg.S3)
	})
}

// Backend keeps objects under a key prefix in one bucket.
type Backend struct {
	client *awss3.Client
	cfg    storage.S3Config
}

// New loads AWS credentials (static keys when cfg carries them, the default
// chain otherwise) and returns a Backend.
func New(ctx context.Context, cfg storage.S3Config) (*Backend, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}
	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle()
	})
	return &Backend{client: client, cfg: cfg}, nil
}

func (b *Backend) objectKey(key string) string {
	return b.cfg.Prefix + strings.TrimPrefix(key, "/")
}

func (b *Backend) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := b.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(b.cfg.Bucket),
		Key:           aws.String(b.objectKey(key)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3: put %s: %w", key, err)
	}
	return nil
}

func (b *Backend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := b.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(b.cfg.Bucket),
		Key:    aws.String(b.objectKey(key)),
	})
	if err != nil {
		if missing(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
		}
		return nil, fmt.Errorf("s3: get %s: %w", key, err)
	}
	return out.Body, nil
}

// List pages through the bucket. Keys come back relative to the prefix.
func (b *Backend) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	objects := []storage.Object{}
	pages := awss3.NewListObjectsV2Paginator(b.client, &awss3.ListObjectsV2Input{
		Bucket: aws.String(b.cfg.Bucket),
		Prefix: aws.String(b.objectKey(prefix)),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3: list %q: %w", prefix, err)
		}
		for _, o := range page.Contents {
			obj := storage.Object{
				Key:  strings.TrimPrefix(aws.ToString(o.Key), b.cfg.Prefix),
				Size: aws.ToInt64(o.Size),
			}
			if o.LastModified != nil {
				obj.Modified = *o.LastModified
			}
			objects = append(objects, obj)
		}
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// Location returns the object URL: under the custom endpoint when one is
// set, virtual-hosted or path-style on AWS otherwise.
func (b *Backend) Location(key string) string {
	escaped := (&url.URL{Path: b.objectKey(key)}).EscapedPath()
	switch {
	case b.cfg.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(b.cfg.Endpoint, "/"), b.cfg.Bucket, escaped)
	case b.cfg.PathStyle:
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s/%s", b.cfg.Region, b.cfg.Bucket, escaped)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", b.cfg.Bucket, b.cfg.Region, escaped)
	}
}

func missing(err error) bool {
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noKey) || errors.As(err, &notFound)
}

var _ storage.Backend = (*Backend)(nil)
