package model

import "time"

// セッショントークンとカートの対応。
// HTTP層はcookieでトークンを運ぶだけで、対応付けはここに永続化する。
type CartSession struct {
	Token     string    `gorm:"type:uuid;primaryKey" json:"token"`
	CartID    int64     `gorm:"not null;index" json:"cart_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
