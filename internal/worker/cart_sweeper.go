package worker

import (
	"context"
	"log/slog"
	"time"

	"app/internal/usecase"
)

// CartSweeper はSweeperUsecaseを一定間隔で起動するスケジューラ。
// リクエスト処理とは独立した単一のバックグラウンドタスクとして動く。
type CartSweeper struct {
	sweeper  *usecase.SweeperUsecase
	interval time.Duration
	logger   *slog.Logger
}

func NewCartSweeper(sweeper *usecase.SweeperUsecase, interval time.Duration, logger *slog.Logger) *CartSweeper {
	return &CartSweeper{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
	}
}

// Start はctxが閉じるまでブロックする。呼ぶ側がgoroutineに載せること。
func (w *CartSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("cart sweeper started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("cart sweeper stopped")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *CartSweeper) run(ctx context.Context) {
	result, err := w.sweeper.Sweep(ctx, time.Now())
	if err != nil {
		w.logger.Error("sweep failed", "error", err)
		return
	}

	w.logger.Info("sweep finished",
		"marked", result.Marked,
		"removed", result.Removed,
		"failed", result.Failed,
	)
}
