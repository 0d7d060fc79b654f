package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

// CommentRepository stores threaded notes per request. Comments are
// append-only from the core's point of view — no delete method exists.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.RequestComment) error
	ListByRequestID(ctx context.Context, requestID string) ([]model.RequestComment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.RequestComment) error {
	return GetDB(ctx, r.db).Create(comment).Error
}

func (r *commentRepository) ListByRequestID(ctx context.Context, requestID string) ([]model.RequestComment, error) {
	var comments []model.RequestComment
	if err := GetDB(ctx, r.db).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
