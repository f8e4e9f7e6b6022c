package config

import (
	"os"
)

const (
	// EnvPublishBucket overrides the manifest bucket.
	EnvPublishBucket = "STOCKNAV_S3_BUCKET"

	// EnvPublishKey overrides the manifest object key.
	EnvPublishKey = "STOCKNAV_S3_KEY"

	// EnvPublishRegion overrides the bucket region.
	EnvPublishRegion = "STOCKNAV_S3_REGION"

	// EnvPublishEndpoint points the client at an S3-compatible endpoint.
	EnvPublishEndpoint = "STOCKNAV_S3_ENDPOINT"
)

// PublishConfig describes where the route manifest is uploaded.
type PublishConfig struct {
	Bucket   string `toml:"bucket"`
	Key      string `toml:"key"`
	Region   string `toml:"region"`
	Endpoint string `toml:"endpoint"`

	// UsePathStyle addresses the bucket as endpoint/bucket, as most
	// S3-compatible stores expect.
	UsePathStyle bool `toml:"use_path_style"`
}

// Finalize applies defaults and loads environment overrides. A missing
// bucket is reported when publishing, not here, since serving does not
// need one.
func (c *PublishConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *PublishConfig) Merge(overlay *PublishConfig) {
	if overlay.Bucket != "" {
		c.Bucket = overlay.Bucket
	}
	if overlay.Key != "" {
		c.Key = overlay.Key
	}
	if overlay.Region != "" {
		c.Region = overlay.Region
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.UsePathStyle {
		c.UsePathStyle = true
	}
}

func (c *PublishConfig) loadDefaults() {
	if c.Key == "" {
		c.Key = "stocknav/routes.json"
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
}

func (c *PublishConfig) loadEnv() {
	if v := os.Getenv(EnvPublishBucket); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv(EnvPublishKey); v != "" {
		c.Key = v
	}
	if v := os.Getenv(EnvPublishRegion); v != "" {
		c.Region = v
	}
	if v := os.Getenv(EnvPublishEndpoint); v != "" {
		c.Endpoint = v
	}
}
