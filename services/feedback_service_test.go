package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volunteer-match-server/models"
	"volunteer-match-server/testutils"
	"volunteer-match-server/types"
)

func TestFeedbackListAndStats(t *testing.T) {
	db := testutils.NewTestDB(t)
	pin := testutils.CreateUser(t, db, models.RolePIN, "pin@example.com")
	requests := NewHelpRequestService(db, nil)
	ctx := context.Background()
	p := types.NewPrincipal(&pin)

	inputs := []models.FeedbackInput{
		{Rating: ptrInt(5), Comment: "Wonderful volunteer"},
		{Rating: ptrInt(4), Comment: "Arrived late", Anonymous: true},
		{Rating: ptrInt(5), Comment: "wonderful again"},
	}
	for i, in := range inputs {
		req := testutils.CreateRequest(t, db, pin.ID, "request")
		_, err := requests.SubmitFeedback(ctx, p, req.ID, in)
		require.NoError(t, err, "feedback %d", i)
	}

	svc := NewFeedbackService(db)
	rows, total, err := svc.List(ctx, FeedbackQuery{Search: "WONDERFUL"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	rows, total, err = svc.List(ctx, FeedbackQuery{Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Anonymous", rows[0].RequesterName)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalFeedback)
	assert.InDelta(t, 4.67, stats.AverageRating, 0.01)
	assert.Equal(t, int64(3), stats.RecentFeedback)
	assert.Equal(t, [5]int{0, 0, 0, 1, 2}, stats.RatingDistribution)
}
