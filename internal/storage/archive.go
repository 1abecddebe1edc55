// Package storage archives rendered agreements to S3 compatible storage.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"rental-backend/internal/config"
	"rental-backend/internal/models"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// AgreementArchive stores one HTML object per rental, keyed by reference
type AgreementArchive struct {
	client putObjectAPI
	bucket string
	prefix string
}

// NewAgreementArchive returns nil when no bucket is configured
func NewAgreementArchive(ctx context.Context, cfg *config.Config) (*AgreementArchive, error) {
	a := cfg.Archive
	if a.Bucket == "" {
		return nil, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(a.Region)}
	if a.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(a.AccessKey, a.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to configure archive client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if a.Endpoint != "" {
			o.BaseEndpoint = aws.String(a.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &AgreementArchive{client: client, bucket: a.Bucket, prefix: a.Prefix}, nil
}

// Key returns the object key for a rental's agreement
func (a *AgreementArchive) Key(r *models.Rental) string {
	return strings.TrimSuffix(a.prefix, "/") + "/" + r.Reference + ".html"
}

// Put uploads the stored agreement HTML
func (a *AgreementArchive) Put(ctx context.Context, r *models.Rental) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.Key(r)),
		Body:        strings.NewReader(r.AgreementHTML),
		ContentType: aws.String("text/html; charset=utf-8"),
		Metadata: map[string]string{
			"rental-id":   fmt.Sprint(r.ID),
			"client-name": r.ClientName,
		},
	})
	if err != nil {
		return fmt.Errorf("archive agreement %s: %w", r.Reference, err)
	}
	return nil
}
