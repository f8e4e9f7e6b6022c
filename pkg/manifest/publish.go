package manifest

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/stocknav/internal/config"
	naverrors "github.com/vango-dev/stocknav/internal/errors"
)

// ContentType is the media type of an uploaded manifest.
const ContentType = "application/json"

// ObjectPutter is the part of the S3 client the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads manifests to one bucket and key.
type Publisher struct {
	client ObjectPutter
	bucket string
	key    string
	logger *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithLogger sets the logger (default slog.Default()).
func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher creates a publisher. An empty bucket is an E501 error.
func NewPublisher(client ObjectPutter, bucket, key string, opts ...PublisherOption) (*Publisher, error) {
	if bucket == "" {
		return nil, naverrors.New("E501")
	}
	p := &Publisher{
		client: client,
		bucket: bucket,
		key:    key,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Result describes a completed upload.
type Result struct {
	Bucket string
	Key    string
	ETag   string
	Size   int
}

// Publish uploads m as JSON.
func (p *Publisher) Publish(ctx context.Context, m *Manifest) (*Result, error) {
	data, err := m.Encode()
	if err != nil {
		return nil, naverrors.New("E502").Wrap(err)
	}

	out, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(p.key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(ContentType),
		CacheControl: aws.String("no-cache"),
		Metadata: map[string]string{
			"history-mode": m.Mode,
			"route-count":  strconv.Itoa(len(m.Routes)),
		},
	})
	if err != nil {
		return nil, naverrors.New("E502").
			Wrap(err).
			WithDetail("s3://" + p.bucket + "/" + p.key)
	}

	res := &Result{
		Bucket: p.bucket,
		Key:    p.key,
		ETag:   aws.ToString(out.ETag),
		Size:   len(data),
	}
	p.logger.Info("manifest published",
		"bucket", res.Bucket,
		"key", res.Key,
		"etag", res.ETag,
		"routes", len(m.Routes),
	)
	return res, nil
}

// ErrNoCredentials is returned by EnvCredentials when the access key pair
// is not set.
var ErrNoCredentials = errors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")

// EnvCredentials reads static credentials from the standard AWS
// environment variables.
func EnvCredentials() aws.CredentialsProvider {
	return aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		id := os.Getenv("AWS_ACCESS_KEY_ID")
		secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
		if id == "" || secret == "" {
			return aws.Credentials{}, ErrNoCredentials
		}
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "EnvCredentials",
		}, nil
	})
}

// NewS3Client builds an S3 client from the publish configuration.
func NewS3Client(cfg config.PublishConfig) *s3.Client {
	return s3.New(s3.Options{
		Region:       cfg.Region,
		Credentials:  aws.NewCredentialsCache(EnvCredentials()),
		UsePathStyle: cfg.UsePathStyle,
	}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
}
