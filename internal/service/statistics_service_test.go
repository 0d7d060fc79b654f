package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStatsRequest(repo *fakeRequestRepo, stage model.RequestStage, priority model.Priority, valueDate time.Time, processingDays int) {
	repo.put(&model.WithdrawalRequest{
		ID:             uuid.New(),
		CurrentStage:   stage,
		Priority:       priority,
		ValueDate:      valueDate,
		ProcessingDays: processingDays,
	})
}

func newStatsService(repo *fakeRequestRepo, now time.Time) *statisticsService {
	svc := NewStatisticsService(repo).(*statisticsService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestDashboardStatsEmpty(t *testing.T) {
	svc := newStatsService(newFakeRequestRepo(), testNow)

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DashboardStats{}, stats)
}

func TestDashboardStatsCounts(t *testing.T) {
	repo := newFakeRequestRepo()
	farOut := testNow.AddDate(0, 0, 30)

	seedStatsRequest(repo, model.StageInitialReview, model.PriorityLow, farOut, 0)
	seedStatsRequest(repo, model.StageInitialReview, model.PriorityMedium, farOut, 0)
	seedStatsRequest(repo, model.StageTechnicalReview, model.PriorityHigh, farOut, 0)
	seedStatsRequest(repo, model.StageCoreBanking, model.PriorityUrgent, farOut, 0)
	seedStatsRequest(repo, model.StageDisbursed, model.PriorityMedium, farOut, 3)
	seedStatsRequest(repo, model.StageDisbursed, model.PriorityHigh, farOut, 4)

	svc := newStatsService(repo, testNow)
	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, stats.TotalRequests)
	assert.Equal(t, 4, stats.PendingRequests, "pending excludes disbursed requests")

	assert.Equal(t, 2, stats.ByStage.InitialReview)
	assert.Equal(t, 1, stats.ByStage.TechnicalReview)
	assert.Equal(t, 1, stats.ByStage.CoreBanking)
	assert.Equal(t, 2, stats.ByStage.Disbursed)

	assert.Equal(t, 1, stats.ByPriority.Low)
	assert.Equal(t, 2, stats.ByPriority.Medium)
	assert.Equal(t, 2, stats.ByPriority.High)
	assert.Equal(t, 1, stats.ByPriority.Urgent)

	// Average of 3 and 4 days rounds half up to 4
	assert.Equal(t, 4, stats.AvgProcessingTime)
}

func TestDashboardStatsDueSoon(t *testing.T) {
	repo := newFakeRequestRepo()

	// Due soon: value date within 3 calendar days of now, request not disbursed
	seedStatsRequest(repo, model.StageCoreBanking, model.PriorityHigh, testNow.Add(48*time.Hour), 0)
	seedStatsRequest(repo, model.StageInitialReview, model.PriorityLow, testNow.Add(-24*time.Hour), 0) // overdue counts too
	seedStatsRequest(repo, model.StageTechnicalReview, model.PriorityMedium, testNow.AddDate(0, 0, 10), 0)
	seedStatsRequest(repo, model.StageDisbursed, model.PriorityMedium, testNow.Add(24*time.Hour), 2) // disbursed never due

	svc := newStatsService(repo, testNow)
	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.DueSoon)
}

func TestDashboardStatsAvgOnlyOverDisbursed(t *testing.T) {
	repo := newFakeRequestRepo()
	farOut := testNow.AddDate(0, 0, 30)

	// Processing days on non-disbursed requests must not enter the average
	seedStatsRequest(repo, model.StageCoreBanking, model.PriorityMedium, farOut, 99)
	seedStatsRequest(repo, model.StageDisbursed, model.PriorityMedium, farOut, 6)

	svc := newStatsService(repo, testNow)
	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, stats.AvgProcessingTime)
}
