// Package s3src reads s3://bucket/key sources from any S3-compatible store.
package s3src

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/alexanderjulianmartinez/csvwatch/internal/source"
)

type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

type Fetcher struct {
	client *minio.Client
}

func New(cfg Config) (*Fetcher, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &Fetcher{client: client}, nil
}

func (f *Fetcher) Name() string {
	return "s3"
}

func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*source.Document, error) {
	bucket, key, err := SplitURL(rawURL)
	if err != nil {
		return nil, err
	}

	obj, err := f.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.StatusCode != 0 {
			return nil, &source.StatusError{Code: errResp.StatusCode, Status: errResp.Code}
		}
		return nil, err
	}

	var contentType string
	if info, err := obj.Stat(); err == nil {
		contentType = info.ContentType
	}
	return &source.Document{Body: body, ContentType: contentType}, nil
}

// SplitURL turns s3://bucket/path/to/key.csv into its bucket and key.
func SplitURL(rawURL string) (bucket, key string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3 url: %q", rawURL)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", errors.New("s3 url must be s3://bucket/key")
	}
	return bucket, key, nil
}
