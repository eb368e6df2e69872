package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/realestate/internal/common"
	"github.com/dmitrijs2005/realestate/internal/server/auth"
	sc "github.com/dmitrijs2005/realestate/internal/server/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	now = time.Now
)

// UploadTicket tells the client where to PUT an image and where it will be
// served from afterwards.
type UploadTicket struct {
	Key       string
	UploadURL string
	PublicURL string
}

// UploadService hands out presigned S3 PUT URLs for profile pictures and
// listing images.
type UploadService struct {
	config *sc.Config
}

func NewUploadService(config *sc.Config) *UploadService {
	return &UploadService{config: config}
}

// StorageKey returns a fresh object key under the account's prefix.
func StorageKey(accountID string) string {
	d := now().UTC()
	return fmt.Sprintf("users/%s/%d/%02d/%02d/%v", accountID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *UploadService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// Presign issues an upload ticket for an image of contentType. The upload
// must be sent with the same Content-Type header.
func (s *UploadService) Presign(ctx context.Context, actor *auth.Identity, contentType string) (*UploadTicket, error) {
	if actor == nil {
		return nil, common.ErrUnauthenticated
	}
	contentType = strings.TrimSpace(strings.ToLower(contentType))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: only images can be uploaded", common.ErrValidation)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, internal(err)
	}

	bucket := s.config.S3Bucket
	key := StorageKey(actor.ID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(s.config.UploadURLValidityDuration))
	if err != nil {
		return nil, internal(err)
	}

	return &UploadTicket{
		Key:       key,
		UploadURL: req.URL,
		PublicURL: strings.TrimRight(s.config.S3PublicBaseURL, "/") + "/" + key,
	}, nil
}
