package repository

import (
	"context"

	"app/internal/domain/model"
)

// セッショントークン→カートIDのkey-value
type CartSessionRepository interface {
	FindByToken(ctx context.Context, token string) (model.CartSession, error)
	Create(ctx context.Context, session model.CartSession) error
	DeleteByCartID(ctx context.Context, cartID int64) error
}
