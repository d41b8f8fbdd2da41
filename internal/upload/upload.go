// Package upload stores menu and logo images in S3-compatible object storage.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MaxImageSize bounds a single upload.
const MaxImageSize = 5 << 20

// ErrDisabled is returned when no bucket or credentials are configured.
var ErrDisabled = errors.New("image storage is not configured")

// ErrUnsupportedType is returned for content types outside AllowedTypes.
var ErrUnsupportedType = errors.New("unsupported image type")

// ErrTooLarge is returned for images over MaxImageSize.
var ErrTooLarge = errors.New("image too large")

// AllowedTypes maps accepted content types to the extension used in keys.
var AllowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Config holds S3-compatible storage configuration.
type Config struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	// PublicBaseURL is prefixed to object keys to form the returned URL.
	PublicBaseURL string `yaml:"public_base_url"`
}

func (c Config) complete() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Uploader puts images into a bucket and returns their public URL.
type Uploader struct {
	cfg    Config
	client s3Client
	newKey func(ext string) string
}

// New returns an Uploader. With an incomplete config the uploader is
// disabled and every Put returns ErrDisabled.
func New(cfg Config) *Uploader {
	u := &Uploader{cfg: cfg, newKey: randomKey}
	if cfg.complete() {
		u.client = newS3Client(cfg)
	}
	return u
}

func newS3Client(cfg Config) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	opts := s3.Options{
		Region:       region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func randomKey(ext string) string {
	return "images/" + uuid.NewString() + ext
}

// Enabled reports whether uploads can be stored.
func (u *Uploader) Enabled() bool {
	return u != nil && u.client != nil
}

// Extension returns the key extension for contentType. filename is used
// only when the content type is generic.
func Extension(contentType, filename string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if ext, ok := AllowedTypes[ct]; ok {
		return ext, nil
	}
	if ct == "application/octet-stream" || ct == "" {
		ext := strings.ToLower(filepath.Ext(filename))
		for _, allowed := range AllowedTypes {
			if ext == allowed || (ext == ".jpeg" && allowed == ".jpg") {
				return allowed, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
}

// Put stores body under a fresh key and returns the public URL.
func (u *Uploader) Put(ctx context.Context, body io.Reader, size int64, contentType, filename string) (string, error) {
	if !u.Enabled() {
		return "", ErrDisabled
	}
	ext, err := Extension(contentType, filename)
	if err != nil {
		return "", err
	}
	if size > MaxImageSize {
		return "", fmt.Errorf("%w: %d bytes, limit is %d", ErrTooLarge, size, MaxImageSize)
	}

	key := u.newKey(ext)
	ct := strings.TrimSpace(strings.Split(contentType, ";")[0])
	if _, ok := AllowedTypes[strings.ToLower(ct)]; !ok {
		ct = mimeFor(ext)
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(ct),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return u.URL(key), nil
}

// Delete removes the object behind a URL previously returned by Put. URLs
// from elsewhere are ignored.
func (u *Uploader) Delete(ctx context.Context, url string) error {
	if !u.Enabled() {
		return ErrDisabled
	}
	key, ok := u.keyFor(url)
	if !ok {
		return nil
	}
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// URL joins the public base URL and key.
func (u *Uploader) URL(key string) string {
	base := strings.TrimRight(u.cfg.PublicBaseURL, "/")
	if base == "" {
		return "/" + key
	}
	return base + "/" + key
}

func (u *Uploader) keyFor(url string) (string, bool) {
	prefix := u.URL("")
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	return key, strings.HasPrefix(key, "images/")
}

func mimeFor(ext string) string {
	for ct, e := range AllowedTypes {
		if e == ext {
			return ct
		}
	}
	return "application/octet-stream"
}
