package dao

import (
	"bytes"
	"context"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultImageBasePath is the key prefix under which all image objects live.
const DefaultImageBasePath = "images"

// imageMimeTypes maps file extensions to MIME types for stored objects.
var imageMimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
}

// ImageStoreOpt configures a new ImageStore.
type ImageStoreOpt struct {
	Endpoint,
	AccessKey,
	SecretKey,
	Bucket string
	// BasePath is the fixed key prefix, DefaultImageBasePath when empty.
	BasePath string
	// PublicPrefix is the CDN/public endpoint prepended to object keys.
	PublicPrefix string
	UseSSL       bool
}

// ImageStore stores, retrieves and deletes image objects in a single bucket
// and renders their public URLs. Single attempt, no caching, no retries.
type ImageStore struct {
	client *minio.Client
	opt    ImageStoreOpt
}

// NewImageStore dials the s3-compatible endpoint and ensures the bucket exists.
func NewImageStore(ctx context.Context, opt ImageStoreOpt) (*ImageStore, error) {
	if opt.BasePath == "" {
		opt.BasePath = DefaultImageBasePath
	}
	opt.BasePath = strings.Trim(opt.BasePath, "/")
	opt.PublicPrefix = strings.TrimSuffix(opt.PublicPrefix, "/")

	client, err := minio.New(opt.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opt.AccessKey, opt.SecretKey, ""),
		Secure: opt.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "new minio client")
	}

	exists, err := client.BucketExists(ctx, opt.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "check bucket existence")
	}
	if !exists {
		if err = client.MakeBucket(ctx, opt.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrapf(err, "make bucket %q", opt.Bucket)
		}
	}

	return &ImageStore{client: client, opt: opt}, nil
}

// MimeType resolves a filename's extension to its MIME type.
func (s *ImageStore) MimeType(filename string) (string, error) {
	return mimeTypeByExtension(filename)
}

func mimeTypeByExtension(filename string) (string, error) {
	parts := strings.Split(filename, ".")
	ext := strings.ToLower(parts[len(parts)-1])
	mimeType, ok := imageMimeTypes[ext]
	if !ok {
		return "", errors.Errorf("unsupported image type: %s", ext)
	}

	return mimeType, nil
}

// objectKey prepends the base path to an object name.
func (s *ImageStore) objectKey(name string) string {
	return s.opt.BasePath + "/" + name
}

// PublicURL renders the fully-qualified public URL for an object key.
func (s *ImageStore) PublicURL(key string) string {
	return s.opt.PublicPrefix + "/" + key
}

// UploadImage writes the file's bytes under basePath/name with the MIME type
// derived from the name's extension, returning the public URL.
func (s *ImageStore) UploadImage(ctx context.Context, name string, content []byte) (string, error) {
	mimeType, err := s.MimeType(name)
	if err != nil {
		return "", err
	}

	key := s.objectKey(name)
	if _, err = s.client.PutObject(ctx,
		s.opt.Bucket,
		key,
		bytes.NewReader(content),
		int64(len(content)),
		minio.PutObjectOptions{ContentType: mimeType},
	); err != nil {
		return "", errors.Wrapf(err, "upload image %q", key)
	}

	return s.PublicURL(key), nil
}

// exists probes the object without reading it.
func (s *ImageStore) exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.opt.Bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// GetImageURL returns the public URL for a stored image,
// or the empty string when the object is absent.
func (s *ImageStore) GetImageURL(ctx context.Context, name string) (string, error) {
	key := s.objectKey(name)
	ok, err := s.exists(ctx, key)
	if err != nil {
		return "", errors.Wrapf(err, "retrieve image url %q", key)
	}
	if !ok {
		return "", nil
	}

	return s.PublicURL(key), nil
}

// GetImageFile returns the stored object's bytes, or nil when absent.
func (s *ImageStore) GetImageFile(ctx context.Context, name string) ([]byte, error) {
	key := s.objectKey(name)
	ok, err := s.exists(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "retrieve image file %q", key)
	}
	if !ok {
		return nil, nil
	}

	obj, err := s.client.GetObject(ctx, s.opt.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "retrieve image file %q", key)
	}
	defer obj.Close() // nolint:errcheck

	var buf bytes.Buffer
	if _, err = buf.ReadFrom(obj); err != nil {
		return nil, errors.Wrapf(err, "retrieve image file %q", key)
	}

	return buf.Bytes(), nil
}

// DeleteImage removes a stored image. A missing object is an error.
func (s *ImageStore) DeleteImage(ctx context.Context, name string) error {
	key := s.objectKey(name)
	ok, err := s.exists(ctx, key)
	if err != nil {
		return errors.Wrapf(err, "delete image %q", key)
	}
	if !ok {
		return errors.Errorf("image does not exist: %s", name)
	}

	if err = s.client.RemoveObject(ctx, s.opt.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrapf(err, "delete image %q", key)
	}

	return nil
}
