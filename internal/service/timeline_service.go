package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
)

// TimelineStatsResponse summarizes a request's activity for display
type TimelineStatsResponse struct {
	EventCount   int64     `json:"event_count"`
	LastActivity time.Time `json:"last_activity"`
}

// TimelineService is the read path over the append-only event log
type TimelineService interface {
	GetTimelineByRequestID(ctx context.Context, requestID string) ([]model.TimelineEvent, error)
	GetTimelineStats(ctx context.Context, requestID string) (TimelineStatsResponse, error)
}

type timelineService struct {
	timeline repository.TimelineRepository
	requests repository.RequestRepository
}

// NewTimelineService creates a new TimelineService instance
func NewTimelineService(timeline repository.TimelineRepository, requests repository.RequestRepository) TimelineService {
	return &timelineService{timeline: timeline, requests: requests}
}

func (s *timelineService) GetTimelineByRequestID(ctx context.Context, requestID string) ([]model.TimelineEvent, error) {
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		return nil, mapRepoError(err, "request", requestID, "get timeline")
	}

	events, err := s.timeline.ListByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeline: %w", err)
	}
	return events, nil
}

// GetTimelineStats returns the event count and latest activity timestamp.
// A request with no events yet falls back to its own UpdatedAt.
func (s *timelineService) GetTimelineStats(ctx context.Context, requestID string) (TimelineStatsResponse, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return TimelineStatsResponse{}, mapRepoError(err, "request", requestID, "get timeline stats")
	}

	stats, err := s.timeline.Stats(ctx, requestID)
	if err != nil {
		return TimelineStatsResponse{}, fmt.Errorf("failed to compute timeline stats: %w", err)
	}

	resp := TimelineStatsResponse{
		EventCount:   stats.EventCount,
		LastActivity: request.UpdatedAt,
	}
	if stats.LastActivity != nil {
		resp.LastActivity = *stats.LastActivity
	}
	return resp, nil
}
