package receipt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var ErrDisabled = errors.New("receipt storage not configured")

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Config holds S3-compatible storage configuration for expense receipts.
type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	// PublicURL is the base under which uploaded objects are readable.
	PublicURL string
}

func (c Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// Uploader stores receipt files and returns the URL the backend records.
type Uploader struct {
	cfg    Config
	client s3Client
	logger *slog.Logger
	now    func() time.Time
}

func NewUploader(cfg Config, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	u := &Uploader{
		cfg:    cfg,
		logger: logger.With("component", "receipt"),
		now:    time.Now,
	}
	if cfg.Enabled() {
		u.client = newS3Client(cfg)
	}
	return u
}

func newS3Client(cfg Config) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
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

func (u *Uploader) Enabled() bool {
	return u.client != nil
}

// Resolve turns receipt input into a URL. Empty input stays empty, http(s)
// URLs pass through, and anything else is uploaded as a local file.
func (u *Uploader) Resolve(ctx context.Context, repID int64, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	if isURL(input) {
		return input, nil
	}
	return u.UploadFile(ctx, repID, input)
}

func (u *Uploader) UploadFile(ctx context.Context, repID int64, path string) (string, error) {
	if u.client == nil {
		return "", ErrDisabled
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open receipt: %w", err)
	}
	defer f.Close()

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		head := make([]byte, 512)
		n, _ := io.ReadFull(f, head)
		contentType = http.DetectContentType(head[:n])
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("rewind receipt: %w", err)
		}
	}

	return u.Upload(ctx, repID, filepath.Ext(path), f, contentType)
}

// Upload stores body under a fresh key scoped to the household.
func (u *Uploader) Upload(ctx context.Context, repID int64, ext string, body io.Reader, contentType string) (string, error) {
	if u.client == nil {
		return "", ErrDisabled
	}

	key := fmt.Sprintf("reps/%d/comprovantes/%s/%s%s",
		repID, u.now().UTC().Format("2006/01"), uuid.NewString(), strings.ToLower(ext))

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload receipt: %w", err)
	}

	u.logger.Info("receipt uploaded", "key", key, "content_type", contentType)
	return u.objectURL(key), nil
}

func (u *Uploader) objectURL(key string) string {
	switch {
	case u.cfg.PublicURL != "":
		return strings.TrimRight(u.cfg.PublicURL, "/") + "/" + key
	case u.cfg.Endpoint != "":
		return strings.TrimRight(u.cfg.Endpoint, "/") + "/" + u.cfg.Bucket + "/" + key
	default:
		region := u.cfg.Region
		if region == "" {
			region = "us-east-1"
		}
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, region, key)
	}
}

func isURL(s string) bool {
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
