package services

import (
	"context"
	"fmt"
	"time"

	sc "github.com/conlangforge/conlangforge/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UploadService issues presigned PUT URLs so clients upload pronunciation
// audio straight to object storage; the server never proxies file bytes.
type UploadService struct {
	config *sc.Config
}

func NewUploadService(cfg *sc.Config) *UploadService {
	return &UploadService{config: cfg}
}

func audioStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("audio/%d/%02d/%02d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *UploadService) s3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// PresignedPutURL returns the storage key and a 15-minute presigned PUT URL
// for a new audio object. The client stores the resulting public URL in the
// pronunciation section's audioUrl field.
func (s *UploadService) PresignedPutURL(ctx context.Context) (string, string, error) {
	client, err := s.s3Client(ctx)
	if err != nil {
		return "", "", err
	}
	presignClient := s3.NewPresignClient(client)

	bucket := s.config.S3Bucket
	key := audioStorageKey()

	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// HealthProbe returns a probe function suitable for HealthCache: it checks
// that the audio bucket is reachable.
func (s *UploadService) HealthProbe() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		client, err := s.s3Client(ctx)
		if err != nil {
			return err
		}
		_, err = client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.config.S3Bucket)})
		return err
	}
}
