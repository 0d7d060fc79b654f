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

type AddDocumentDTO struct {
	FileName     string             `json:"file_name" binding:"required"`
	FileSize     int64              `json:"file_size" binding:"required,gt=0"`
	FileType     string             `json:"file_type"`
	DocumentType model.DocumentType `json:"document_type" binding:"required,oneof=agreement invoice receipt bank_statement other"`
	StoragePath  string             `json:"storage_path"`
}

// --- Interface ---

// DocumentService tracks supporting-document metadata per request. The file
// bytes live with an external storage collaborator; this service records the
// reference and its verification state, with one timeline event per action.
type DocumentService interface {
	AddDocument(ctx context.Context, requestID string, actor Actor, dto AddDocumentDTO) (*model.RequestDocument, error)
	GetDocumentsByRequestID(ctx context.Context, requestID string) ([]model.RequestDocument, error)
	VerifyDocument(ctx context.Context, documentID string, actor Actor) (*model.RequestDocument, error)
}

type documentService struct {
	documents repository.DocumentRepository
	timeline  repository.TimelineRepository
	requests  repository.RequestRepository
	txm       repository.TransactionManager
	now       func() time.Time
	opTimeout time.Duration
}

// NewDocumentService creates a new DocumentService instance
func NewDocumentService(
	documents repository.DocumentRepository,
	timeline repository.TimelineRepository,
	requests repository.RequestRepository,
	txm repository.TransactionManager,
) DocumentService {
	return &documentService{
		documents: documents,
		timeline:  timeline,
		requests:  requests,
		txm:       txm,
		now:       time.Now,
		opTimeout: 5 * time.Second,
	}
}

// --- Implementation ---

func (s *documentService) AddDocument(ctx context.Context, requestID string, actor Actor, dto AddDocumentDTO) (*model.RequestDocument, error) {
	if strings.TrimSpace(dto.FileName) == "" {
		return nil, &ValidationError{Field: "file_name", Message: "is required"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	var doc *model.RequestDocument
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		request, err := s.requests.GetByID(txCtx, requestID)
		if err != nil {
			return mapRepoError(err, "request", requestID, "add document")
		}

		doc = &model.RequestDocument{
			RequestID:    request.ID,
			UploadedBy:   actor.ID,
			UploaderName: actor.Name,
			FileName:     dto.FileName,
			FileSize:     dto.FileSize,
			FileType:     dto.FileType,
			DocumentType: dto.DocumentType,
			StoragePath:  dto.StoragePath,
		}
		if createErr := s.documents.Create(txCtx, doc); createErr != nil {
			return fmt.Errorf("failed to create document record: %w", createErr)
		}

		event := &model.TimelineEvent{
			RequestID:   request.ID,
			UserID:      actor.ID,
			UserName:    actor.Name,
			EventType:   model.EventDocumentUploaded,
			Title:       "Document Uploaded",
			Description: fmt.Sprintf("%s (%s) uploaded", dto.FileName, dto.DocumentType),
			Metadata:    map[string]string{model.MetadataKeyStage: string(request.CurrentStage)},
		}
		if recordErr := s.timeline.Create(txCtx, event); recordErr != nil {
			return fmt.Errorf("failed to record timeline event: %w", recordErr)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &StorageUnavailableError{Op: "add document", Err: err}
		}
		return nil, err
	}

	return doc, nil
}

func (s *documentService) GetDocumentsByRequestID(ctx context.Context, requestID string) ([]model.RequestDocument, error) {
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		return nil, mapRepoError(err, "request", requestID, "get documents")
	}

	docs, err := s.documents.ListByRequestID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) VerifyDocument(ctx context.Context, documentID string, actor Actor) (*model.RequestDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	var doc *model.RequestDocument
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		doc, err = s.documents.GetByID(txCtx, documentID)
		if err != nil {
			return mapRepoError(err, "document", documentID, "verify document")
		}

		if doc.IsVerified {
			// Verification is idempotent for display purposes but must not
			// produce a second timeline event
			return nil
		}

		now := s.now()
		doc.IsVerified = true
		doc.VerifiedBy = actor.ID
		doc.VerifiedAt = &now
		if updateErr := s.documents.Update(txCtx, doc); updateErr != nil {
			return fmt.Errorf("failed to update document: %w", updateErr)
		}

		event := &model.TimelineEvent{
			RequestID:   doc.RequestID,
			UserID:      actor.ID,
			UserName:    actor.Name,
			EventType:   model.EventStatusChange,
			Title:       "Document Verified",
			Description: fmt.Sprintf("%s verified", doc.FileName),
		}
		if recordErr := s.timeline.Create(txCtx, event); recordErr != nil {
			return fmt.Errorf("failed to record timeline event: %w", recordErr)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &StorageUnavailableError{Op: "verify document", Err: err}
		}
		return nil, err
	}

	return doc, nil
}
