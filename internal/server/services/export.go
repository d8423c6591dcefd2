package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/liftlog/internal/dbx"
	sc "github.com/dmitrijs2005/liftlog/internal/server/config"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/google/uuid"
)

const exportLinkTTL = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ExportResult points at an uploaded export.
type ExportResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ExportService writes a user's full history to object storage and hands
// back a short-lived download link.
type ExportService struct {
	store    *Store
	workouts *WorkoutService
	records  *RecordService
	config   *sc.Config
	now      func() time.Time
}

func NewExportService(s *Store, w *WorkoutService, r *RecordService, cfg *sc.Config) *ExportService {
	return &ExportService{store: s, workouts: w, records: r, config: cfg, now: time.Now}
}

func exportKey(userID string, d time.Time) string {
	return fmt.Sprintf("exports/%s/%d/%d/%d/%v.json", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ExportService) s3Client(ctx context.Context) (*s3.Client, error) {
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

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Collect builds the export document without uploading it.
func (s *ExportService) Collect(ctx context.Context, id models.Identity) (*models.Export, error) {
	doc, err := run(ctx, s.store, func(ctx context.Context, conn dbx.Conn) (*models.Export, error) {
		repo := s.store.Repos.Workouts(conn)
		total, err := repo.CountSessions(ctx, id.ID)
		if err != nil {
			return nil, err
		}
		list, err := repo.ListSessions(ctx, id.ID, total, 0)
		if err != nil {
			return nil, err
		}

		doc := &models.Export{UserName: id.UserName, ExportedAt: s.now().UTC(), Workouts: []models.WorkoutDetail{}}
		for i := range list {
			d, err := s.workouts.detail(ctx, conn, &list[i].WorkoutSession)
			if err != nil {
				return nil, err
			}
			doc.Workouts = append(doc.Workouts, *d)
		}
		if doc.Records, err = s.records.allPRs(ctx, conn, id.ID); err != nil {
			return nil, err
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Export uploads the document as JSON and presigns a GET for it.
func (s *ExportService) Export(ctx context.Context, id models.Identity) (*ExportResult, error) {
	doc, err := s.Collect(ctx, id)
	if err != nil {
		return nil, err
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	client, err := s.s3Client(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.S3Bucket
	key := exportKey(id.ID, s.now())

	if err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(exportLinkTTL))
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}

	return &ExportResult{Key: key, URL: req.URL}, nil
}
