package snapshot

import (
	"bytes"
	"context"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pgscope/pgscope/internal/config"
	"github.com/pgscope/pgscope/internal/errs"
)

// ObjectStore is a MinIO/S3-backed Exporter. It is safe for concurrent use.
type ObjectStore struct {
	client *miniogo.Client
	bucket string
}

// NewObjectStore connects to the object store described by cfg and ensures
// the snapshot bucket exists.
func NewObjectStore(ctx context.Context, cfg config.Snapshot) (*ObjectStore, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "create object store client", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "object store unreachable", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, miniogo.MakeBucketOptions{}); err != nil {
			return nil, errs.Wrap(errs.ErrKindConnectionFailed, "create snapshot bucket", err)
		}
	}

	return &ObjectStore{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads data under key with a JSON content type.
func (o *ObjectStore) Put(ctx context.Context, key string, data []byte) error {
	_, err := o.client.PutObject(ctx, o.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		miniogo.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return errs.Wrap(errs.ErrKindUnknown, "upload snapshot object", err)
	}
	return nil
}
