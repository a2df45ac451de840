package repository

import (
	"context"
	"time"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

type CartRepository interface {
	Create(ctx context.Context, now time.Time) (model.Cart, error)
	FindByID(ctx context.Context, cartID int64) (model.Cart, error)
	// カート行をFOR UPDATEで取り、同一カートへの同時更新を直列化する
	FindByIDForUpdate(ctx context.Context, cartID int64) (model.Cart, error)
	// 合計金額と最終アクティビティをまとめて更新
	UpdateTotalAndActivity(ctx context.Context, cartID int64, total decimal.Decimal, at time.Time) error

	// Sweeper用
	ListToBeMarkedAsAbandoned(ctx context.Context, olderThan time.Time) ([]model.Cart, error)
	ListToBeRemoved(ctx context.Context, olderThan time.Time) ([]model.Cart, error)
	MarkAsAbandoned(ctx context.Context, cartID int64) error
	// 明細ごとカートを削除
	DeleteWithItems(ctx context.Context, cartID int64) error
}
