package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

// RefreshTokenRepository stores long-lived refresh tokens
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*model.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository returns a new instance of RefreshTokenRepository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	return GetDB(ctx, r.db).Create(token).Error
}

func (r *refreshTokenRepository) GetByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var rt model.RefreshToken
	if err := GetDB(ctx, r.db).First(&rt, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *refreshTokenRepository) Delete(ctx context.Context, token string) error {
	return GetDB(ctx, r.db).Where("token = ?", token).Delete(&model.RefreshToken{}).Error
}

func (r *refreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	return GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&model.RefreshToken{}).Error
}
