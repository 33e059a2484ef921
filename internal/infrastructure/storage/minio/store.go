// Package minio implements the document store on a MinIO / S3-compatible
// bucket.
package minio

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/protoscribe/internal/config"
	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/internal/infrastructure/storage"
	"github.com/turtacn/protoscribe/pkg/errors"
)

// API is the subset of the minio-go client the store uses. Narrowing the
// surface keeps the store testable without a running server.
type API interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (*minio.Object, error)
	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
}

// Store is a storage.DocumentStore backed by a single bucket.
type Store struct {
	api    API
	bucket string
	log    logging.Logger
}

var _ storage.DocumentStore = (*Store)(nil)

// NewStore connects to MinIO, ensures the configured bucket exists and
// returns the store.
func NewStore(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "create minio client")
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "protoscribe-documents"
	}

	store := &Store{api: client, bucket: bucket, log: log.Named("storage.minio")}
	ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := store.ensureBucket(ensureCtx); err != nil {
		return nil, err
	}

	log.Info("connected to object storage",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", bucket))
	return store, nil
}

// NewStoreWithAPI builds a store on an existing API implementation.
func NewStoreWithAPI(api API, bucket string, log logging.Logger) *Store {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Store{api: api, bucket: bucket, log: log.Named("storage.minio")}
}

func (s *Store) ensureBucket(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "check bucket existence")
	}
	if !exists {
		if err := s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return errors.Wrap(err, errors.ErrCodeStorageError, "create bucket "+s.bucket)
		}
		s.log.Info("created bucket", logging.String("bucket", s.bucket))
	}
	return nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New(errors.ErrCodeValidation, "object key is empty")
	}
	if contentType == "" {
		contentType = storage.ContentTypeForKey(key)
	}
	_, err := s.api.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "put object")
	}
	s.log.Debug("stored document", logging.String("key", key), logging.Int("size", len(data)))
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (*storage.Object, error) {
	obj, err := s.api.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "get object")
	}
	defer obj.Close()

	stat, err := obj.Stat()
	if err != nil {
		if isNoSuchKey(err) {
			return nil, storage.ErrObjectNotFound
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "stat object")
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "read object")
	}

	return &storage.Object{
		Key:          key,
		Data:         data,
		ContentType:  stat.ContentType,
		Size:         stat.Size,
		LastModified: stat.LastModified,
	}, nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "remove object")
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.api.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeStorageError, "stat object")
	}
	return true, nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
