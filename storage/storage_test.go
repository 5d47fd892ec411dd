package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volunteer-match-server/config"
	"volunteer-match-server/models"
	"volunteer-match-server/services"
	"volunteer-match-server/testutils"
	"volunteer-match-server/types"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Archiver_Disabled(t *testing.T) {
	a, err := NewS3Archiver(context.Background(), config.ReportsConfig{})
	require.NoError(t, err)
	assert.False(t, a.Enabled())

	_, err = a.ArchiveJSON(context.Background(), "k", []byte("{}"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestS3Archiver_PutsJSON(t *testing.T) {
	fake := &fakePutter{}
	a := &S3Archiver{client: fake, bucket: "reports-bucket"}

	url, err := a.ArchiveJSON(context.Background(), "reports/daily/x.json", []byte(`{"ok":true}`))
	require.NoError(t, err)
	assert.Equal(t, "s3://reports-bucket/reports/daily/x.json", url)
	assert.Equal(t, "application/json", aws.ToString(fake.input.ContentType))
	assert.Equal(t, "reports-bucket", aws.ToString(fake.input.Bucket))
	assert.Equal(t, `{"ok":true}`, string(fake.body))

	fake.err = errors.New("denied")
	_, err = a.ArchiveJSON(context.Background(), "reports/daily/y.json", nil)
	assert.ErrorContains(t, err, "denied")
}

func TestCloudinaryUploader_RequiresCredentials(t *testing.T) {
	_, err := NewCloudinaryUploader(config.CloudinaryConfig{CloudName: "demo"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	u, err := NewCloudinaryUploader(config.CloudinaryConfig{CloudName: "demo", APIKey: "key", APISecret: "secret"})
	require.NoError(t, err)
	assert.NotNil(t, u)
}

func TestS3Archiver_BacksReportService(t *testing.T) {
	db := testutils.NewTestDB(t)
	pm := testutils.CreateUser(t, db, models.RolePlatformManager, "pm@example.com")
	manager := types.NewPrincipal(&pm)
	ctx := context.Background()

	disabled, err := NewS3Archiver(ctx, config.ReportsConfig{})
	require.NoError(t, err)
	var archiver services.ReportArchiver = disabled
	svc := services.NewReportService(db, services.NewReportingService(db), archiver)
	report, err := svc.Generate(ctx, manager, "daily")
	require.NoError(t, err)
	assert.Nil(t, report.ArchiveURL)

	fake := &fakePutter{}
	archiver = &S3Archiver{client: fake, bucket: "reports-bucket"}
	svc = services.NewReportService(db, services.NewReportingService(db), archiver)
	report, err = svc.Generate(ctx, manager, "weekly")
	require.NoError(t, err)
	require.NotNil(t, report.ArchiveURL)
	assert.Contains(t, *report.ArchiveURL, "s3://reports-bucket/reports/weekly/")
	assert.Contains(t, string(fake.body), `"report_type":"weekly"`)
}
