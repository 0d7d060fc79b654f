package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

// DocumentRepository stores supporting-document metadata per request
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.RequestDocument) error
	GetByID(ctx context.Context, id string) (*model.RequestDocument, error)
	ListByRequestID(ctx context.Context, requestID string) ([]model.RequestDocument, error)
	Update(ctx context.Context, doc *model.RequestDocument) error
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository returns a new instance of DocumentRepository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.RequestDocument) error {
	return GetDB(ctx, r.db).Create(doc).Error
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*model.RequestDocument, error) {
	var doc model.RequestDocument
	if err := GetDB(ctx, r.db).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) ListByRequestID(ctx context.Context, requestID string) ([]model.RequestDocument, error) {
	var docs []model.RequestDocument
	if err := GetDB(ctx, r.db).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepository) Update(ctx context.Context, doc *model.RequestDocument) error {
	return GetDB(ctx, r.db).Save(doc).Error
}
