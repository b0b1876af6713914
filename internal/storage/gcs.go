package storage

import (
	"context"
	"io"
	"log/slog"

	gcs "cloud.google.com/go/storage"
	"github.com/cockroachdb/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// checksumMetaKey is the object metadata entry holding the body checksum.
const checksumMetaKey = "xxh3"

// GCSConfig configures the Cloud Storage backend.
type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
	Endpoint        string // emulator / test endpoint
}

// GCSStore stores objects in a single Cloud Storage bucket.
type GCSStore struct {
	client *gcs.Client
	bucket *gcs.BucketHandle
	name   string
	logger *slog.Logger
}

// NewGCSStore creates a client for the configured bucket. The client handle
// is owned by the store; Close releases it.
func NewGCSStore(ctx context.Context, cfg GCSConfig, logger *slog.Logger) (*GCSStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create gcs client")
	}
	return &GCSStore{
		client: client,
		bucket: client.Bucket(cfg.Bucket),
		name:   cfg.Bucket,
		logger: logger,
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *GCSStore) EnsureBucket(ctx context.Context, projectID string) error {
	_, err := s.bucket.Attrs(ctx)
	if err == nil {
		s.logger.Debug("Bucket already exists", "bucket", s.name)
		return nil
	}
	if !errors.Is(err, gcs.ErrBucketNotExist) {
		return storageErr("inspect bucket", s.name, err)
	}
	if projectID == "" {
		return errors.Newf("bucket %q does not exist and GCS_PROJECT_ID is not set", s.name)
	}
	s.logger.Info("Bucket does not exist, creating it", "bucket", s.name, "project", projectID)
	if err := s.bucket.Create(ctx, projectID, nil); err != nil {
		return storageErr("create bucket", s.name, err)
	}
	return nil
}

func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := s.bucket.Object(key).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("open", s.uri(key), err)
	}
	defer r.Close()

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, storageErr("read", s.uri(key), err)
	}
	return body, nil
}

func (s *GCSStore) Put(ctx context.Context, key string, obj Object) error {
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = obj.ContentType
	if obj.Checksum != "" {
		w.Metadata = map[string]string{checksumMetaKey: obj.Checksum}
	}
	if _, err := w.Write(obj.Body); err != nil {
		_ = w.Close()
		return storageErr("write", s.uri(key), err)
	}
	if err := w.Close(); err != nil {
		return storageErr("finalize", s.uri(key), err)
	}
	return nil
}

func (s *GCSStore) Checksum(ctx context.Context, key string) (string, error) {
	attrs, err := s.bucket.Object(key).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", storageErr("stat", s.uri(key), err)
	}
	return attrs.Metadata[checksumMetaKey], nil
}

func (s *GCSStore) List(ctx context.Context, prefix string) ([]string, error) {
	it := s.bucket.Objects(ctx, &gcs.Query{Prefix: prefix})
	var keys []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, storageErr("list", s.uri(prefix), err)
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

func (s *GCSStore) Ping(ctx context.Context) error {
	if _, err := s.bucket.Attrs(ctx); err != nil {
		return storageErr("ping", s.name, err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func (s *GCSStore) uri(key string) string {
	return "gs://" + s.name + "/" + key
}
