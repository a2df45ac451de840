package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/worker"

	"github.com/joho/godotenv"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは無ければ環境変数だけで動く
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.CartSession{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}

	//Usecase生成
	cartUC := usecase.NewCartUsecase(txManager, clock)
	productUC := usecase.NewProductUsecase(productRepo)
	sweeperUC := usecase.NewSweeperUsecase(cartRepo, usecase.LifecyclePolicy{
		AbandonAfter: cfg.AbandonAfter,
		RemoveAfter:  cfg.RemoveAfter,
	}, logger)

	//Handler生成
	cartH := handler.NewCartHandler(cartUC)
	productH := handler.NewProductHandler(productUC)

	//Sweeperはリクエスト処理と独立したバックグラウンドタスク
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sweeper := worker.NewCartSweeper(sweeperUC, cfg.SweepInterval, logger)
	go sweeper.Start(ctx)

	//Server起動
	addr := ":" + cfg.Port
	e := server.New(cartH, productH)

	go func() {
		if err := server.Start(e, addr); err != nil {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
