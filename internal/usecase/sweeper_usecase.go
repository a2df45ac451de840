package usecase

import (
	"context"
	"log/slog"
	"time"

	repo "app/internal/repository"
)

// カートのライフサイクル方針。
// 最終アクティビティから3時間で放棄マーク、7日で削除が既定値。
type LifecyclePolicy struct {
	AbandonAfter time.Duration
	RemoveAfter  time.Duration
}

func DefaultLifecyclePolicy() LifecyclePolicy {
	return LifecyclePolicy{
		AbandonAfter: 3 * time.Hour,
		RemoveAfter:  7 * 24 * time.Hour,
	}
}

type SweepResult struct {
	Marked  int
	Removed int
	Failed  int
}

// SweeperUsecase はカートを active → abandoned → 削除 と進める定期処理。
// 1件の失敗でスイープ全体を止めない（ログして次へ）。
type SweeperUsecase struct {
	cartRepo repo.CartRepository
	policy   LifecyclePolicy
	logger   *slog.Logger
}

func NewSweeperUsecase(cartRepo repo.CartRepository, policy LifecyclePolicy, logger *slog.Logger) *SweeperUsecase {
	return &SweeperUsecase{
		cartRepo: cartRepo,
		policy:   policy,
		logger:   logger,
	}
}

// Sweep は2パスで実行する。
// (1) 未マークかつ閾値より古いカートにabandonedを立てる
// (2) 削除閾値より古いカートを明細ごと消す
// 境界はどちらも「より古い」(strict)。ちょうど閾値のカートは対象外。
func (u *SweeperUsecase) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult

	toMark, err := u.cartRepo.ListToBeMarkedAsAbandoned(ctx, now.Add(-u.policy.AbandonAfter))
	if err != nil {
		return result, err
	}

	for _, cart := range toMark {
		if err := u.cartRepo.MarkAsAbandoned(ctx, cart.ID); err != nil {
			u.logger.Error("mark as abandoned failed", "cart_id", cart.ID, "error", err)
			result.Failed++
			continue
		}
		result.Marked++
	}

	toRemove, err := u.cartRepo.ListToBeRemoved(ctx, now.Add(-u.policy.RemoveAfter))
	if err != nil {
		return result, err
	}

	for _, cart := range toRemove {
		if err := u.cartRepo.DeleteWithItems(ctx, cart.ID); err != nil {
			u.logger.Error("remove cart failed", "cart_id", cart.ID, "error", err)
			result.Failed++
			continue
		}
		result.Removed++
	}

	return result, nil
}
