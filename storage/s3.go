package storage

import (
	"bytes"
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Objects stores objects in an S3 bucket.
type S3Objects struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	region   string
	endpoint string
}

// NewS3Objects returns S3Objects for bucket. When endpoint is set, object URLs
// are built path-style against it instead of the AWS virtual-hosted form.
func NewS3Objects(client *s3.Client, bucket, region, endpoint string) *S3Objects {
	return &S3Objects{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		region:   region,
		endpoint: strings.TrimSuffix(endpoint, "/"),
	}
}

func (o *S3Objects) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := o.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(o.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: int64(len(body)),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return o.url(key), nil
}

func (o *S3Objects) Remove(ctx context.Context, key string) error {
	_, err := o.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (o *S3Objects) url(key string) string {
	if o.endpoint != "" {
		return o.endpoint + "/" + o.bucket + "/" + key
	}
	return "https://" + o.bucket + ".s3." + o.region + ".amazonaws.com/" + key
}
