package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Client wraps a MinIO bucket as the feed's object storage collaborator.
type Client struct {
	conn     *minio.Client
	endpoint string
	bucket   string
	secure   bool
}

var C *Client

func NewClient() error {
	endpoint := viper.GetString("storage.endpoint")
	secure := viper.GetBool("storage.use_ssl")

	conn, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(viper.GetString("storage.access_key"), viper.GetString("storage.secret_key"), ""),
		Secure: secure,
	})
	if err != nil {
		return fmt.Errorf("unable to initialize object storage: %v", err)
	}

	bucket := viper.GetString("storage.bucket")
	ctx := context.Background()
	if exists, err := conn.BucketExists(ctx, bucket); err != nil {
		return fmt.Errorf("unable to check bucket %s: %v", bucket, err)
	} else if !exists {
		if err := conn.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("unable to create bucket %s: %v", bucket, err)
		}
		log.Info().Str("bucket", bucket).Msg("Object storage bucket created.")
	}

	C = &Client{conn: conn, endpoint: endpoint, bucket: bucket, secure: secure}
	return nil
}

// Upload writes an object under path. Denied uploads come back as an
// UnauthorizedError so the feed store can degrade instead of aborting.
func (c *Client) Upload(ctx context.Context, path string, content io.Reader, size int64, contentType string, overwrite bool) error {
	if !overwrite {
		if _, err := c.conn.StatObject(ctx, c.bucket, path, minio.StatObjectOptions{}); err == nil {
			return fmt.Errorf("object %s already exists", path)
		}
	}

	_, err := c.conn.PutObject(ctx, c.bucket, path, content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return classifyError(err)
	}

	return nil
}

func (c *Client) PublicURL(path string) string {
	scheme := "http"
	if c.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, c.endpoint, c.bucket, path)
}

// UnauthorizedError satisfies the degrade contract of the feed store's
// object storage collaborator.
type UnauthorizedError struct {
	Err error
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("upload unauthorized: %v", e.Err)
}

func (e *UnauthorizedError) Unwrap() error {
	return e.Err
}

func (e *UnauthorizedError) Unauthorized() bool {
	return true
}

func classifyError(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "AccessDenied" || resp.StatusCode == http.StatusForbidden {
		return &UnauthorizedError{Err: err}
	}
	return err
}
