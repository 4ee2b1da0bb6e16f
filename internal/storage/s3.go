// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage holds uploaded media files. S3Store writes to an
// S3-compatible bucket through the AWS SDK v2 with path-style addressing
// (required by CEPH/Hetzner); DiskStore writes under a local directory.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// keyPrefix namespaces media objects inside the bucket.
const keyPrefix = "media/"

// S3Store keeps uploads in a single public-read bucket.
type S3Store struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL
}

// NewS3 creates an S3 store. Returns (nil, nil) if endpoint or credentials
// are empty so the caller can fall back to disk storage.
func NewS3(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*S3Store, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket name is required")
	}

	endpoint = strings.TrimRight(endpoint, "/")
	client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &S3Store{
		s3:        client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Put uploads the object with a public-read ACL and returns its public URL.
func (c *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	objectKey := keyPrefix + key
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(objectKey),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, objectKey, err)
	}
	return c.FileURL(key), nil
}

// Remove deletes the object. Deleting a missing key is not an error in S3.
func (c *S3Store) Remove(ctx context.Context, key string) error {
	objectKey := keyPrefix + key
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", c.bucket, objectKey, err)
	}
	return nil
}

// FileURL returns the public URL for a stored key.
// Uses the configured public URL if set, otherwise builds a path-style URL.
func (c *S3Store) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + keyPrefix + key
	}
	return c.endpoint + "/" + c.bucket + "/" + keyPrefix + key
}

// Bucket returns the bucket name.
func (c *S3Store) Bucket() string {
	return c.bucket
}
