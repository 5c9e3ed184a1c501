package wasmsource

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// loadS3 fetches a plugin's Wasm bytes from an S3-compatible object
// store, using ambient credentials (environment, shared config, or
// instance role) resolved by the default AWS config chain.
func loadS3(ctx context.Context, pluginURL *url.URL) ([]byte, error) {
	bucket := pluginURL.Host
	key := strings.TrimPrefix(pluginURL.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 url %q must be of the form s3://bucket/key", pluginURL.Redacted())
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("getting s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3 object body: %w", err)
	}
	return data, nil
}
