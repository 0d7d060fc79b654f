package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
)

// --- DTOs ---

type AddCommentDTO struct {
	CommentText    string   `json:"comment_text" binding:"required"`
	MentionedUsers []string `json:"mentioned_users"`
	IsInternal     bool     `json:"is_internal"`
}

// --- Interface ---

// CommentService manages threaded notes on a request. Comments are appended,
// never edited or deleted by the core; each append produces exactly one
// comment_added timeline event.
type CommentService interface {
	AddComment(ctx context.Context, requestID string, actor Actor, dto AddCommentDTO) (*model.RequestComment, error)
	GetCommentsByRequestID(ctx context.Context, requestID string) ([]model.RequestComment, error)
}

type commentService struct {
	comments  repository.CommentRepository
	timeline  repository.TimelineRepository
	requests  repository.RequestRepository
	txm       repository.TransactionManager
	opTimeout time.Duration
}

// NewCommentService creates a new CommentService instance
func NewCommentService(
	comments repository.CommentRepository,
	timeline repository.TimelineRepository,
	requests repository.RequestRepository,
	txm repository.TransactionManager,
) CommentService {
	return &commentService{
		comments:  comments,
		timeline:  timeline,
		requests:  requests,
		txm:       txm,
		opTimeout: 5 * time.Second,
	}
}

// --- Implementation ---

func (s *commentService) AddComment(ctx context.Context, requestID string, actor Actor, dto AddCommentDTO) (*model.RequestComment, error) {
	if strings.TrimSpace(dto.CommentText) == "" {
		return nil, &ValidationError{Field: "comment_text", Message: "must not be empty"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	var comment *model.RequestComment
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		request, err := s.requests.GetByID(txCtx, requestID)
		if err != nil {
			return mapRepoError(err, "request", requestID, "add comment")
		}

		comment = &model.RequestComment{
			RequestID:      request.ID,
			UserID:         actor.ID,
			UserName:       actor.Name,
			CommentText:    dto.CommentText,
			MentionedUsers: dto.MentionedUsers,
			IsInternal:     dto.IsInternal,
		}
		if createErr := s.comments.Create(txCtx, comment); createErr != nil {
			return fmt.Errorf("failed to create comment: %w", createErr)
		}

		event := &model.TimelineEvent{
			RequestID:   request.ID,
			UserID:      actor.ID,
			UserName:    actor.Name,
			EventType:   model.EventCommentAdded,
			Title:       "Comment Added",
			Description: dto.CommentText,
			Metadata:    map[string]string{model.MetadataKeyStage: string(request.CurrentStage)},
		}
		if recordErr := s.timeline.Create(txCtx, event); recordErr != nil {
			return fmt.Errorf("failed to record timeline event: %w", recordErr)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &StorageUnavailableError{Op: "add comment", Err: err}
		}
		return nil, err
	}

	return comment, nil
}

func (s *commentService) GetCommentsByRequestID(ctx context.Context, requestID string) ([]model.RequestComment, error) {
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		return nil, mapRepoError(err, "request", requestID, "get comments")
	}

	comments, err := s.comments.ListByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	return comments, nil
}
