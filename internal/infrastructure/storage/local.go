package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/turtacn/protoscribe/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/protoscribe/pkg/errors"
)

// localStore keeps documents as files under a base directory. It is the
// default backend when object storage is not configured.
type localStore struct {
	dir string
	log logging.Logger
}

// NewLocalStore returns a DocumentStore backed by dir, creating it if needed.
func NewLocalStore(dir string, log logging.Logger) (DocumentStore, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "create upload directory")
	}
	return &localStore{dir: dir, log: log.Named("storage.local")}, nil
}

// path maps an object key to a file path, rejecting traversal outside dir.
func (s *localStore) path(key string) (string, error) {
	if key == "" {
		return "", errors.New(errors.ErrCodeValidation, "object key is empty")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", errors.Newf(errors.ErrCodeValidation, "invalid object key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}

func (s *localStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "create object directory")
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "write object")
	}
	s.log.Debug("stored document", logging.String("key", key), logging.Int("size", len(data)))
	return nil
}

func (s *localStore) Get(ctx context.Context, key string) (*Object, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if os.IsNotExist(err) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "stat object")
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "read object")
	}
	return &Object{
		Key:          key,
		Data:         data,
		ContentType:  ContentTypeForKey(key),
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}, nil
}

func (s *localStore) Remove(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.ErrCodeStorageError, "remove object")
	}
	return nil
}

func (s *localStore) Exists(ctx context.Context, key string) (bool, error) {
	p, err := s.path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeStorageError, "stat object")
	}
	return true, nil
}

// ContentTypeForKey guesses a MIME type from the object key's extension.
func ContentTypeForKey(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".txt":
		return "text/plain"
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
