// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config carries the settings for an S3-compatible bucket (Cloudflare R2).
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// S3Store keeps image blobs in an S3-compatible bucket. It is the
// serverless production backend.
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Store builds the S3 client for the configured endpoint.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("blob: failed to load S3 configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// R2 does not support virtual-hosted-style addressing on custom endpoints
		options.UsePathStyle = cfg.Endpoint != ""
	})

	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

/*
Put uploads the image bytes to the bucket.

Parameters:
  - ctx: context.Context
  - filename: string (object key)
  - data: []byte
  - contentType: string

Returns:
  - string: Public URL
  - error: Upload failures
*/
func (store *S3Store) Put(ctx context.Context, filename string, data []byte, contentType string) (string, error) {

	input := &s3.PutObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(filename),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := store.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("blob_s3_put_failed: %w", err)
	}

	return store.URL(filename), nil
}

/*
List enumerates every object in the bucket.

Description: Paginates through ListObjectsV2 until the listing is complete;
portfolio buckets hold hundreds of images, not millions, so a full listing
per call is acceptable.

Returns:
  - []Object: One entry per stored image
  - error: Listing failures
*/
func (store *S3Store) List(ctx context.Context) ([]Object, error) {

	var objects []Object

	paginator := s3.NewListObjectsV2Paginator(store.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(store.bucket),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("blob_s3_list_failed: %w", err)
		}

		for _, item := range page.Contents {
			obj := Object{
				Filename: aws.ToString(item.Key),
				URL:      store.URL(aws.ToString(item.Key)),
				Size:     aws.ToInt64(item.Size),
			}
			if item.LastModified != nil {
				obj.UploadedAt = *item.LastModified
			}
			objects = append(objects, obj)
		}
	}

	return objects, nil
}

/*
Delete removes the object from the bucket. S3 DeleteObject is idempotent,
so absent keys are not an error.
*/
func (store *S3Store) Delete(ctx context.Context, filename string) error {

	_, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(filename),
	})
	if err != nil {
		return fmt.Errorf("blob_s3_delete_failed: %w", err)
	}

	return nil
}

// URL returns the public URL for a stored object.
func (store *S3Store) URL(filename string) string {
	if store.publicBaseURL != "" {
		return store.publicBaseURL + "/" + filename
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", store.bucket, filename)
}

// Name identifies this backend in logs and health checks.
func (store *S3Store) Name() string { return "s3" }
