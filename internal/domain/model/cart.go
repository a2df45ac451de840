package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 1セッションにつきカートは1つ。
// TotalPriceは明細から導出する値で、クライアントが直接セットすることはない。
type Cart struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Abandoned      bool            `gorm:"not null;default:false;index" json:"abandoned"`
	LastActivityAt time.Time       `gorm:"not null;index" json:"last_activity_at"`
	CreatedAt      time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
