package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/globetrotter/internal/common"
	"github.com/dmitrijs2005/globetrotter/internal/dbx"
	sc "github.com/dmitrijs2005/globetrotter/internal/server/config"
	"github.com/dmitrijs2005/globetrotter/internal/server/models"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/globetrotter/internal/server/validate"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignExpiry bounds the lifetime of upload and download URLs.
const PresignExpiry = 15 * time.Minute

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
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ImageService keeps trip cover images in S3-compatible storage. Clients
// upload straight to the bucket with a presigned PUT and then confirm.
type ImageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config

	mu      sync.Mutex
	presign *s3.PresignClient
}

func NewImageService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *ImageService {
	return &ImageService{db: db, repomanager: m, config: cfg}
}

func GetRandomStorageKey() string {
	d := now()
	return fmt.Sprintf("users/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// getPresignClient builds the presign client on first use and reuses it.
// A failed build is retried on the next call.
func (s *ImageService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.presign != nil {
		return s.presign, nil
	}

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
	s.presign = newS3PresignClient(client)
	return s.presign, nil
}

func (s *ImageService) presignedPutURL(ctx context.Context, key string) (string, error) {
	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}
	bucket := s.config.S3Bucket
	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *ImageService) presignedGetURL(ctx context.Context, key string) (string, error) {
	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}
	bucket := s.config.S3Bucket
	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// RequestCoverUpload records a pending image and returns where to PUT it.
func (s *ImageService) RequestCoverUpload(ctx context.Context, userID, tripID string) (*models.UploadTask, error) {
	if _, err := s.repomanager.Trips(s.db).GetForUser(ctx, userID, tripID); err != nil {
		return nil, err
	}

	key := GetRandomStorageKey()
	url, err := s.presignedPutURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	_, err = s.repomanager.Images(s.db).Create(ctx, &models.Image{
		UserID:       userID,
		Kind:         models.ImageKindTripCover,
		RefID:        tripID,
		StorageKey:   key,
		UploadStatus: models.UploadStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("error recording image: %w", err)
	}
	return &models.UploadTask{StorageKey: key, URL: url}, nil
}

// CompleteCoverUpload marks the upload done and makes it the trip cover.
func (s *ImageService) CompleteCoverUpload(ctx context.Context, userID, tripID, storageKey string) error {
	if err := validate.New().Required("storage_key", storageKey).Err(); err != nil {
		return err
	}
	img, err := s.repomanager.Images(s.db).GetByKey(ctx, storageKey)
	if err != nil {
		return err
	}
	if img.UserID != userID || img.RefID != tripID || img.Kind != models.ImageKindTripCover {
		return common.ErrorNotFound
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Images(tx).MarkCompleted(ctx, img.ID); err != nil {
			return err
		}
		return s.repomanager.Trips(tx).SetCover(ctx, tripID, storageKey)
	})
}

// CoverURL returns a presigned download URL, or "" when the trip has no cover.
func (s *ImageService) CoverURL(ctx context.Context, trip *models.Trip) (string, error) {
	if trip.CoverImageKey == "" {
		return "", nil
	}
	return s.presignedGetURL(ctx, trip.CoverImageKey)
}
