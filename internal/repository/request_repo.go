package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

// RequestFilter narrows list queries; zero values mean "no filter"
type RequestFilter struct {
	Stage    model.RequestStage
	Country  string
	Priority model.Priority
	Search   string
	Page     int
	Limit    int
}

// RequestRepository defines data access for WithdrawalRequest entities.
// The workflow engine is the only caller of the mutating methods.
type RequestRepository interface {
	Create(ctx context.Context, req *model.WithdrawalRequest) error
	GetByID(ctx context.Context, id string) (*model.WithdrawalRequest, error)
	GetAll(ctx context.Context) ([]model.WithdrawalRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]model.WithdrawalRequest, int64, error)
	Search(ctx context.Context, term string) ([]model.WithdrawalRequest, error)
	// UpdateStageGuarded applies fields only when the request is still in the
	// expected stage. Returns the number of rows affected — zero on an
	// existing record means a concurrent transition won the race.
	UpdateStageGuarded(ctx context.Context, id string, from model.RequestStage, fields map[string]interface{}) (int64, error)
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository returns a new instance of RequestRepository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *model.WithdrawalRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*model.WithdrawalRequest, error) {
	var req model.WithdrawalRequest
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) GetAll(ctx context.Context) ([]model.WithdrawalRequest, error) {
	var requests []model.WithdrawalRequest
	if err := GetDB(ctx, r.db).Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]model.WithdrawalRequest, int64, error) {
	var total int64
	query := GetDB(ctx, r.db).Model(&model.WithdrawalRequest{})

	if filter.Stage != "" {
		query = query.Where("current_stage = ?", filter.Stage)
	}
	if filter.Country != "" {
		query = query.Where("country = ?", filter.Country)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("ref_number ILIKE ? OR project_number ILIKE ? OR beneficiary_name ILIKE ?",
			pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	var requests []model.WithdrawalRequest
	if err := query.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *requestRepository) Search(ctx context.Context, term string) ([]model.WithdrawalRequest, error) {
	pattern := "%" + term + "%"
	var requests []model.WithdrawalRequest
	if err := GetDB(ctx, r.db).
		Where("ref_number ILIKE ? OR project_number ILIKE ? OR beneficiary_name ILIKE ?",
			pattern, pattern, pattern).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) UpdateStageGuarded(ctx context.Context, id string, from model.RequestStage, fields map[string]interface{}) (int64, error) {
	res := GetDB(ctx, r.db).Model(&model.WithdrawalRequest{}).
		Where("id = ? AND current_stage = ?", id, from).
		Updates(fields)
	return res.RowsAffected, res.Error
}
