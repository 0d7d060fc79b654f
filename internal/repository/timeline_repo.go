package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

// TimelineStats summarizes a request's event history
type TimelineStats struct {
	EventCount   int64      `json:"event_count"`
	LastActivity *time.Time `json:"last_activity"`
}

// TimelineRepository is the append-only event log keyed by request id.
// There is deliberately no update or delete method.
type TimelineRepository interface {
	Create(ctx context.Context, event *model.TimelineEvent) error
	ListByRequestID(ctx context.Context, requestID string) ([]model.TimelineEvent, error)
	Stats(ctx context.Context, requestID string) (TimelineStats, error)
}

type timelineRepository struct {
	db *gorm.DB
}

// NewTimelineRepository returns a new instance of TimelineRepository
func NewTimelineRepository(db *gorm.DB) TimelineRepository {
	return &timelineRepository{db: db}
}

func (r *timelineRepository) Create(ctx context.Context, event *model.TimelineEvent) error {
	return GetDB(ctx, r.db).Create(event).Error
}

func (r *timelineRepository) ListByRequestID(ctx context.Context, requestID string) ([]model.TimelineEvent, error) {
	var events []model.TimelineEvent
	if err := GetDB(ctx, r.db).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *timelineRepository) Stats(ctx context.Context, requestID string) (TimelineStats, error) {
	var stats TimelineStats
	if err := GetDB(ctx, r.db).Model(&model.TimelineEvent{}).
		Where("request_id = ?", requestID).
		Count(&stats.EventCount).Error; err != nil {
		return TimelineStats{}, err
	}

	if stats.EventCount == 0 {
		return stats, nil
	}

	var last time.Time
	if err := GetDB(ctx, r.db).Model(&model.TimelineEvent{}).
		Where("request_id = ?", requestID).
		Select("MAX(created_at)").
		Scan(&last).Error; err != nil {
		return TimelineStats{}, err
	}
	stats.LastActivity = &last

	return stats, nil
}
