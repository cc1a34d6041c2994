package filestore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	miniocred "github.com/minio/minio-go/v7/pkg/credentials"

	appErr "github.com/xxxsen/folio/internal/pkg/errors"
)

type minioConfig struct {
	Endpoint     string `json:"endpoint"`
	AccessKey    string `json:"access_key"`
	SecretKey    string `json:"secret_key"`
	Bucket       string `json:"bucket"`
	Prefix       string `json:"prefix"`
	PublicURL    string `json:"public_url"`
	UseSSL       bool   `json:"use_ssl"`
	CreateBucket bool   `json:"create_bucket"`
}

type minioStore struct {
	client    *minio.Client
	bucket    string
	prefix    string
	publicURL string
}

func init() {
	Register("minio", createMinioStore)
}

func createMinioStore(args interface{}) (Store, error) {
	config := &minioConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	if config.Endpoint == "" || config.Bucket == "" || config.AccessKey == "" || config.SecretKey == "" {
		return nil, fmt.Errorf("minio endpoint/bucket/access_key/secret_key are required")
	}
	endpoint := strings.TrimPrefix(strings.TrimPrefix(config.Endpoint, "https://"), "http://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  miniocred.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	if config.CreateBucket {
		if err := ensureBucket(client, config.Bucket); err != nil {
			return nil, err
		}
	}
	publicURL := strings.TrimSuffix(config.PublicURL, "/")
	if publicURL == "" {
		publicURL = bucketURL(withScheme(endpoint, config.UseSSL), config.Bucket)
	}
	return &minioStore{
		client:    client,
		bucket:    config.Bucket,
		prefix:    strings.Trim(config.Prefix, "/"),
		publicURL: publicURL,
	}, nil
}

func ensureBucket(client *minio.Client, bucket string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check minio bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create minio bucket: %w", err)
	}
	return nil
}

func (s *minioStore) Type() string {
	return "minio"
}

func (s *minioStore) URL(key, baseURL string) string {
	_ = baseURL
	return s.publicURL + "/" + objectKey(s.prefix, key)
}

func (s *minioStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, objectKey(s.prefix, key), r, size,
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (s *minioStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(s.prefix, key), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; Stat surfaces a missing key before the first read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	return obj, nil
}

func (s *minioStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return s.client.RemoveObject(ctx, s.bucket, objectKey(s.prefix, key), minio.RemoveObjectOptions{})
}
