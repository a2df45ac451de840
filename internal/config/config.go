package config

import (
	"fmt"
	"os"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     string // DBポート（5432）

	AbandonAfter  time.Duration // 放棄マークまでの無操作時間（3h）
	RemoveAfter   time.Duration // 削除までの無操作時間（168h）
	SweepInterval time.Duration // Sweeperの起動間隔（30m）

	GoEnv string // dev/prod
}

// Loadは環境変数から読む。ライフサイクル系は未設定なら既定値
func Load() (Config, error) {
	abandonAfter, err := durationEnv("CART_ABANDON_AFTER", 3*time.Hour)
	if err != nil {
		return Config{}, err
	}
	removeAfter, err := durationEnv("CART_REMOVE_AFTER", 7*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	sweepInterval, err := durationEnv("CART_SWEEP_INTERVAL", 30*time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     os.Getenv("POSTGRES_PORT"),

		AbandonAfter:  abandonAfter,
		RemoveAfter:   removeAfter,
		SweepInterval: sweepInterval,

		GoEnv: os.Getenv("GO_ENV"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.PostgresUser == "" {
		return Config{}, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.PostgresPassword == "" {
		return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if cfg.PostgresDB == "" {
		return Config{}, fmt.Errorf("POSTGRES_DB is required")
	}
	if cfg.PostgresHost == "" {
		return Config{}, fmt.Errorf("POSTGRES_HOST is required")
	}

	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
