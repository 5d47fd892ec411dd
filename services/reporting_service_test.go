package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"volunteer-match-server/models"
	"volunteer-match-server/testutils"
)

var fixedNow = time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)

func at(month time.Month, day, hour int) time.Time {
	return time.Date(2026, month, day, hour, 0, 0, 0, time.UTC)
}

func TestWindowFor(t *testing.T) {
	tests := []struct {
		name   string
		period Period
		now    time.Time
		start  time.Time
		end    time.Time
		label  string
	}{
		{"daily", PeriodDaily, fixedNow, at(10, 16, 0), at(10, 17, 0), "Oct 16, 2026"},
		{"weekly", PeriodWeekly, fixedNow, at(10, 10, 0), at(10, 17, 0), "Oct 10, 2026 - Oct 16, 2026"},
		{"monthly", PeriodMonthly, fixedNow, at(10, 1, 0), at(10, 17, 0), "Oct 1, 2026 - Oct 16, 2026"},
		{"weekly clamped to month start", PeriodWeekly, at(10, 3, 8), at(10, 1, 0), at(10, 4, 0), "Oct 1, 2026 - Oct 3, 2026"},
		{"monthly on the first", PeriodMonthly, at(10, 1, 23), at(10, 1, 0), at(10, 2, 0), "Oct 1, 2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WindowFor(tt.period, tt.now)
			assert.True(t, tt.start.Equal(w.Start), "start %s", w.Start)
			assert.True(t, tt.end.Equal(w.End), "end %s", w.End)
			assert.Equal(t, tt.label, w.Label)
		})
	}
}

func TestWindowFor_NestedEveryDay(t *testing.T) {
	day := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 365; i++ {
		now := day.AddDate(0, 0, i)
		daily := WindowFor(PeriodDaily, now)
		weekly := WindowFor(PeriodWeekly, now)
		monthly := WindowFor(PeriodMonthly, now)

		assert.False(t, weekly.Start.After(daily.Start), now.Format(time.DateOnly))
		assert.False(t, monthly.Start.After(weekly.Start), now.Format(time.DateOnly))
		assert.True(t, daily.End.Equal(weekly.End) && weekly.End.Equal(monthly.End))
	}
}

func TestParsePeriodAndMetric(t *testing.T) {
	_, err := ParsePeriod("yearly")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ParseMetric("opened")
	assert.ErrorIs(t, err, ErrValidation)

	p, err := ParsePeriod("weekly")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeekly, p)
}

// seedTimeline writes requests at fixed instants around fixedNow.
func seedTimeline(t *testing.T, db *gorm.DB, ownerID uint) {
	t.Helper()
	closedToday := at(10, 16, 10)
	closedEarly := at(10, 5, 10)
	closedLastMonth := at(9, 29, 10)
	rows := []models.HelpRequest{
		{Title: "today", CreatedAt: at(10, 16, 9), Status: models.RequestStatusOpen},
		{Title: "this week", CreatedAt: at(10, 12, 9), Status: models.RequestStatusMatched},
		{Title: "this month", CreatedAt: at(10, 3, 9), Status: models.RequestStatusCompleted, CompletedAt: &closedToday},
		{Title: "last month", CreatedAt: at(9, 30, 9), Status: models.RequestStatusCompleted, CompletedAt: &closedEarly},
		{Title: "older", CreatedAt: at(9, 1, 9), Status: models.RequestStatusCompleted, CompletedAt: &closedLastMonth},
		// completed_at without completed status is not a closure
		{Title: "reopened", CreatedAt: at(9, 2, 9), Status: models.RequestStatusOpen, CompletedAt: &closedToday},
	}
	for i := range rows {
		rows[i].UserID = ownerID
		rows[i].Description = rows[i].Title
		rows[i].Urgency = models.UrgencyMedium
		require.NoError(t, db.Create(&rows[i]).Error)
	}
}

func TestSummary_CountsWindows(t *testing.T) {
	db := testutils.NewTestDB(t)
	pin := testutils.CreateUser(t, db, models.RolePIN, "pin@example.com")
	seedTimeline(t, db, pin.ID)
	svc := NewReportingService(db).WithClock(func() time.Time { return fixedNow })

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary[PeriodDaily][MetricCreated].Count)
	assert.Equal(t, int64(2), summary[PeriodWeekly][MetricCreated].Count)
	assert.Equal(t, int64(3), summary[PeriodMonthly][MetricCreated].Count)

	assert.Equal(t, int64(1), summary[PeriodDaily][MetricClosed].Count)
	assert.Equal(t, int64(1), summary[PeriodWeekly][MetricClosed].Count)
	assert.Equal(t, int64(2), summary[PeriodMonthly][MetricClosed].Count)

	assert.Equal(t, "Oct 16, 2026", summary[PeriodDaily][MetricClosed].Range)
}

func TestDetail_ListsCountedRequests(t *testing.T) {
	db := testutils.NewTestDB(t)
	pin := testutils.CreateUser(t, db, models.RolePIN, "pin@example.com")
	seedTimeline(t, db, pin.ID)
	svc := NewReportingService(db).WithClock(func() time.Time { return fixedNow })
	ctx := context.Background()

	detail, err := svc.Detail(ctx, "weekly", "created")
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Count)
	require.Len(t, detail.Requests, 2)
	assert.Equal(t, "today", detail.Requests[0].Title)
	assert.Equal(t, "this week", detail.Requests[1].Title)
	assert.Equal(t, "Oct 10, 2026 - Oct 16, 2026", detail.Range)

	closed, err := svc.Detail(ctx, "monthly", "closed")
	require.NoError(t, err)
	require.Len(t, closed.Requests, 2)
	assert.Equal(t, "this month", closed.Requests[0].Title)

	_, err = svc.Detail(ctx, "hourly", "created")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Detail(ctx, "daily", "resolved")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStats_ZeroFillsKeys(t *testing.T) {
	db := testutils.NewTestDB(t)
	pin := testutils.CreateUser(t, db, models.RolePIN, "pin@example.com")
	testutils.CreateUser(t, db, models.RoleCSR, "csr@example.com")
	testutils.CreateRequest(t, db, pin.ID, "one")
	testutils.CreateRequest(t, db, pin.ID, "two")
	testutils.CreateCategory(t, db, "Transport")

	stats, err := NewReportingService(db).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.Equal(t, int64(1), stats.TotalCategories)
	assert.Equal(t, int64(1), stats.UsersByRole["csr_rep"])
	assert.Equal(t, int64(0), stats.UsersByRole["admin"])
	assert.Equal(t, int64(2), stats.RequestsByStatus["open"])
	assert.Contains(t, stats.RequestsByStatus, "completed")
	assert.Len(t, stats.UsersByRole, len(models.AllRoles))
}
