package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CartSessionGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartSessionGormRepository(db *gorm.DB) *CartSessionGormRepository {
	return &CartSessionGormRepository{db: db}
}

// トークンで1件検索
func (r *CartSessionGormRepository) FindByToken(ctx context.Context, token string) (model.CartSession, error) {
	var session model.CartSession

	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartSession{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartSession{}, err
	}
	return session, nil
}

// トークン→カートの対応を保存
func (r *CartSessionGormRepository) Create(ctx context.Context, session model.CartSession) error {
	if err := r.db.WithContext(ctx).Create(&session).Error; err != nil {
		return err
	}
	return nil
}

// カート削除時の後始末
func (r *CartSessionGormRepository) DeleteByCartID(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartSession{}).Error
}
