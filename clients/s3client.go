package clients

import (
	"context"
	"net/http"

	s3Config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/emzola/athenaeum/config"
)

// NewS3Client configures a new AWS S3 object storage client. A configured
// endpoint switches the client to path-style requests against an
// S3-compatible store.
func NewS3Client(ctx context.Context, cfg config.Config, httpClient *http.Client) (*s3.Client, error) {
	opts := []func(*s3Config.LoadOptions) error{
		s3Config.WithRegion(cfg.S3.Region),
		s3Config.WithHTTPClient(httpClient),
	}
	if cfg.S3.AccessKeyID != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, "")
		opts = append(opts, s3Config.WithCredentialsProvider(creds))
	}
	awsCfg, err := s3Config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.EndpointResolver = s3.EndpointResolverFromURL(cfg.S3.Endpoint)
			o.UsePathStyle = true
		}
	})
	return s3Client, nil
}
