package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
)

// StatisticsService computes dashboard aggregates. Every call recomputes from
// the current snapshot of requests — there are no running counters.
type StatisticsService interface {
	GetDashboardStats(ctx context.Context) (model.DashboardStats, error)
}

type statisticsService struct {
	requests repository.RequestRepository
	now      func() time.Time
}

// NewStatisticsService creates a new StatisticsService instance
func NewStatisticsService(requests repository.RequestRepository) StatisticsService {
	return &statisticsService{requests: requests, now: time.Now}
}

// GetDashboardStats derives all dashboard counters from one read of the full
// request collection. Pending means any stage other than disbursed; due soon
// means a value date within 3 calendar days of now on a not-yet-disbursed
// request.
func (s *statisticsService) GetDashboardStats(ctx context.Context) (model.DashboardStats, error) {
	requests, err := s.requests.GetAll(ctx)
	if err != nil {
		return model.DashboardStats{}, fmt.Errorf("failed to load requests for statistics: %w", err)
	}

	var stats model.DashboardStats
	stats.TotalRequests = len(requests)

	now := s.now()
	var disbursedCount, processingDaysSum int

	for _, req := range requests {
		if req.CurrentStage != model.StageDisbursed {
			stats.PendingRequests++

			daysUntilValue := math.Ceil(req.ValueDate.Sub(now).Hours() / 24)
			if daysUntilValue <= 3 {
				stats.DueSoon++
			}
		}

		switch req.CurrentStage {
		case model.StageInitialReview:
			stats.ByStage.InitialReview++
		case model.StageTechnicalReview:
			stats.ByStage.TechnicalReview++
		case model.StageCoreBanking:
			stats.ByStage.CoreBanking++
		case model.StageDisbursed:
			stats.ByStage.Disbursed++
			disbursedCount++
			processingDaysSum += req.ProcessingDays
		case model.StageApproved:
			stats.ByStage.Approved++
		case model.StageRejected:
			stats.ByStage.Rejected++
		}

		switch req.Priority {
		case model.PriorityLow:
			stats.ByPriority.Low++
		case model.PriorityMedium:
			stats.ByPriority.Medium++
		case model.PriorityHigh:
			stats.ByPriority.High++
		case model.PriorityUrgent:
			stats.ByPriority.Urgent++
		}
	}

	if disbursedCount > 0 {
		stats.AvgProcessingTime = int(math.Round(float64(processingDaysSum) / float64(disbursedCount)))
	}

	return stats, nil
}
