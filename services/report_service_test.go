package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volunteer-match-server/models"
	"volunteer-match-server/services/mocks"
	"volunteer-match-server/testutils"
	"volunteer-match-server/types"
)

func TestGenerateReport_Archives(t *testing.T) {
	db := testutils.NewTestDB(t)
	pin := testutils.CreateUser(t, db, models.RolePIN, "pin@example.com")
	pm := testutils.CreateUser(t, db, models.RolePlatformManager, "pm@example.com")
	seedTimeline(t, db, pin.ID)

	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })
	archiver := mocks.NewMockReportArchiver(ctrl)
	archiver.EXPECT().Enabled().Return(true)
	archiver.EXPECT().
		ArchiveJSON(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, body []byte) (string, error) {
			assert.True(t, strings.HasPrefix(key, "reports/weekly/20261016T150000Z-"), key)
			assert.True(t, json.Valid(body))
			return "s3://reports/" + key, nil
		})

	reporting := NewReportingService(db).WithClock(func() time.Time { return fixedNow })
	svc := NewReportService(db, reporting, archiver)

	report, err := svc.Generate(context.Background(), types.NewPrincipal(&pm), "weekly")
	require.NoError(t, err)
	assert.Equal(t, pm.ID, report.ManagerID)
	assert.Equal(t, "weekly", report.ReportType)
	require.NotNil(t, report.ArchiveURL)
	assert.True(t, strings.HasPrefix(*report.ArchiveURL, "s3://reports/reports/weekly/"))

	var content ReportContent
	require.NoError(t, json.Unmarshal([]byte(report.Content), &content))
	assert.Equal(t, int64(2), content.Created)
	assert.Equal(t, int64(1), content.Closed)
	assert.Equal(t, "Oct 10, 2026 - Oct 16, 2026", content.Range)

	stored, err := svc.Get(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Content, stored.Content)
}

func TestGenerateReport_ArchiveFailureKeepsRow(t *testing.T) {
	db := testutils.NewTestDB(t)
	pm := testutils.CreateUser(t, db, models.RolePlatformManager, "pm@example.com")

	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })
	archiver := mocks.NewMockReportArchiver(ctrl)
	archiver.EXPECT().Enabled().Return(true)
	archiver.EXPECT().ArchiveJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("access denied"))

	svc := NewReportService(db, NewReportingService(db), archiver)
	report, err := svc.Generate(context.Background(), types.NewPrincipal(&pm), "daily")
	require.NoError(t, err)
	assert.Nil(t, report.ArchiveURL)

	var count int64
	db.Model(&models.Report{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGenerateReport_DisabledArchiverAndValidation(t *testing.T) {
	db := testutils.NewTestDB(t)
	pm := testutils.CreateUser(t, db, models.RolePlatformManager, "pm@example.com")

	ctrl := gomock.NewController(t)
	t.Cleanup(func() { ctrl.Finish() })
	archiver := mocks.NewMockReportArchiver(ctrl)
	archiver.EXPECT().Enabled().Return(false).Times(2)

	svc := NewReportService(db, NewReportingService(db), archiver)
	ctx := context.Background()

	_, err := svc.Generate(ctx, types.NewPrincipal(&pm), "quarterly")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Generate(ctx, types.NewPrincipal(&pm), "monthly")
	require.NoError(t, err)
	_, err = svc.Generate(ctx, types.NewPrincipal(&pm), "daily")
	require.NoError(t, err)

	monthly, err := svc.List(ctx, "monthly")
	require.NoError(t, err)
	assert.Len(t, monthly, 1)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.List(ctx, "hourly")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
