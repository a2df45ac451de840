package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// 空のカートを作成（合計0、未放棄）
func (r *CartGormRepository) Create(ctx context.Context, now time.Time) (model.Cart, error) {
	cart := model.Cart{
		TotalPrice:     decimal.Zero,
		Abandoned:      false,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := r.db.WithContext(ctx).Create(&cart).Error; err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// カートを1件取得
func (r *CartGormRepository) FindByID(ctx context.Context, cartID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Where("id = ?", cartID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// FOR UPDATEで取得。同一カートのread-modify-writeを直列化する
func (r *CartGormRepository) FindByIDForUpdate(ctx context.Context, cartID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", cartID).
		First(&cart).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Cart{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 合計金額と最終アクティビティをまとめて更新
func (r *CartGormRepository) UpdateTotalAndActivity(ctx context.Context, cartID int64, total decimal.Decimal, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{
			"total_price":      total,
			"last_activity_at": at,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 放棄マーク対象（未マークかつolderThanより古い）を取得
func (r *CartGormRepository) ListToBeMarkedAsAbandoned(ctx context.Context, olderThan time.Time) ([]model.Cart, error) {
	var carts []model.Cart

	if err := r.db.WithContext(ctx).
		Where("abandoned = ? AND last_activity_at < ?", false, olderThan).
		Order("id asc").
		Find(&carts).Error; err != nil {
		return []model.Cart{}, err
	}

	return carts, nil
}

// 削除対象（olderThanより古い。abandonedの値は問わない）を取得
func (r *CartGormRepository) ListToBeRemoved(ctx context.Context, olderThan time.Time) ([]model.Cart, error) {
	var carts []model.Cart

	if err := r.db.WithContext(ctx).
		Where("last_activity_at < ?", olderThan).
		Order("id asc").
		Find(&carts).Error; err != nil {
		return []model.Cart{}, err
	}

	return carts, nil
}

// abandonedをtrueにする。逆方向の遷移はない
func (r *CartGormRepository) MarkAsAbandoned(ctx context.Context, cartID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("abandoned", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// カートを明細・セッションごと削除
func (r *CartGormRepository) DeleteWithItems(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cartID).Delete(&model.CartSession{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Cart{}, cartID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
