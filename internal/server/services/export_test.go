package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/liftlog/internal/server/config"
	"github.com/dmitrijs2005/liftlog/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	bucket, key string
	body        []byte
	presigned   string
	putErr      error
}

func stubS3(t *testing.T, f *fakeS3) {
	t.Helper()
	origLoad, origPut, origPresign := loadDefaultAWSConfig, putObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, putObject, presignGetObject = origLoad, origPut, origPresign
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "us-east-1"}, nil
	}
	putObject = func(_ *s3.Client, _ context.Context, in *s3.PutObjectInput) error {
		if f.putErr != nil {
			return f.putErr
		}
		f.bucket, f.key = aws.ToString(in.Bucket), aws.ToString(in.Key)
		b, err := io.ReadAll(in.Body)
		if err != nil {
			return err
		}
		f.body = b
		return nil
	}
	presignGetObject = func(_ *s3.PresignClient, _ context.Context, in *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		f.presigned = aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
		return &v4.PresignedHTTPRequest{URL: "https://s3.local/" + f.presigned}, nil
	}
}

func newExport(env *testEnv) *ExportService {
	var cfg sc.Config
	cfg.LoadDefaults()
	svc := NewExportService(env.store, env.workouts, env.records, &cfg)
	svc.now = func() time.Time { return time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC) }
	return svc
}

func TestExport_UploadsAndPresigns(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	w, err := env.workouts.Create(bg, alice.ID, "2025-04-01", ptr("legs"))
	require.NoError(t, err)
	_, err = env.workouts.AddLog(bg, alice.ID, w.ID, SetInput{ExerciseID: "default-squat", Reps: 5, Weight: 140})
	require.NoError(t, err)

	f := &fakeS3{}
	stubS3(t, f)

	res, err := newExport(env).Export(bg, alice)
	require.NoError(t, err)

	assert.Equal(t, "liftlog-exports", f.bucket)
	assert.Equal(t, res.Key, f.key)
	assert.Regexp(t, `^exports/`+alice.ID+`/2025/4/2/[0-9a-f-]{36}\.json$`, res.Key)
	assert.Equal(t, "https://s3.local/liftlog-exports/"+res.Key, res.URL)

	var doc models.Export
	require.NoError(t, json.Unmarshal(f.body, &doc))
	assert.Equal(t, "alice", doc.UserName)
	require.Len(t, doc.Workouts, 1)
	require.Len(t, doc.Workouts[0].Logs, 1)
	assert.True(t, doc.Workouts[0].Logs[0].IsPR)
	require.Len(t, doc.Records, 1)
	assert.Equal(t, 140.0, doc.Records[0].Value)
}

func TestExport_UploadFailure(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	stubS3(t, &fakeS3{putErr: errors.New("bucket missing")})

	_, err := newExport(env).Export(bg, alice)
	assert.ErrorContains(t, err, "upload export")
}

func TestExport_CollectEmpty(t *testing.T) {
	env := newTestEnv(t)
	bob := env.user(t, "bob")

	doc, err := newExport(env).Collect(bg, bob)
	require.NoError(t, err)
	assert.Empty(t, doc.Workouts)
	assert.Empty(t, doc.Records)
}
