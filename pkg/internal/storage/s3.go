package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/viper"
)

// Bucket wraps the object store the video platform's egress writes
// recordings into. Objects are keyed by the recording filename.
type Bucket struct {
	client  *s3.Client
	presign *s3.PresignClient

	name   string
	expire time.Duration
}

func NewBucket(ctx context.Context) (*Bucket, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(viper.GetString("storage.region")),
	}
	if accessKey := viper.GetString("storage.access_key"); len(accessKey) > 0 {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey,
			viper.GetString("storage.secret_key"),
			"",
		)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load object storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	expire := time.Duration(viper.GetInt("storage.presign_expire_minutes")) * time.Minute
	if expire <= 0 {
		expire = 60 * time.Minute
	}

	return &Bucket{
		client:  client,
		presign: s3.NewPresignClient(client),
		name:    viper.GetString("storage.bucket"),
		expire:  expire,
	}, nil
}

func (b *Bucket) Remove(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	return err
}

func (b *Bucket) PresignDownload(ctx context.Context, key string) (string, error) {
	req, err := b.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(b.expire))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
