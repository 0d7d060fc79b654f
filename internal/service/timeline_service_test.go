package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTimelineByRequestID(t *testing.T) {
	eng := newTestEngine(testNow)
	svc := NewTimelineService(eng.timeline, eng.requests)
	ctx := context.Background()

	request, err := eng.svc.CreateRequest(ctx, validCreateDTO(), testActor())
	require.NoError(t, err)
	_, err = eng.svc.SubmitForTechnicalReview(ctx, request.ID.String(), testActor())
	require.NoError(t, err)

	events, err := svc.GetTimelineByRequestID(ctx, request.ID.String())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventCreated, events[0].EventType)
	assert.Equal(t, model.EventStatusChange, events[1].EventType)
}

func TestGetTimelineMissingRequest(t *testing.T) {
	eng := newTestEngine(testNow)
	svc := NewTimelineService(eng.timeline, eng.requests)

	_, err := svc.GetTimelineByRequestID(context.Background(), "0d4f74e1-2222-4d4d-9b9b-bb66bb66bb66")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestGetTimelineStats(t *testing.T) {
	eng := newTestEngine(testNow)
	svc := NewTimelineService(eng.timeline, eng.requests)
	ctx := context.Background()

	request, err := eng.svc.CreateRequest(ctx, validCreateDTO(), testActor())
	require.NoError(t, err)

	stats, err := svc.GetTimelineStats(ctx, request.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.EventCount)
	assert.False(t, stats.LastActivity.IsZero())
}

func TestGetTimelineStatsFallsBackToRequestUpdatedAt(t *testing.T) {
	eng := newTestEngine(testNow)
	svc := NewTimelineService(eng.timeline, eng.requests)

	// Seeded directly, so the request exists with no events at all
	updatedAt := testNow.Add(-6 * time.Hour)
	req := eng.seedRequest(model.StageInitialReview, updatedAt)

	stats, err := svc.GetTimelineStats(context.Background(), req.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.EventCount)
	assert.Equal(t, updatedAt, stats.LastActivity)
}
