package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// usecaseに現在時刻を渡す部品
type Clock interface {
	Now() time.Time
}

// CartUsecase は /cart の業務ロジックです。
// {明細の変更, 合計の再計算, 最終アクティビティ更新} を1トランザクションで確定し、
// 明細と合計がずれた状態を外から観測できないようにします。
type CartUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

func NewCartUsecase(tx repo.TransactionManager, clock Clock) *CartUsecase {
	return &CartUsecase{tx: tx, clock: clock}
}

// レスポンスの1明細。unit_price/total_priceは参照実装に合わせてfloatで返す
type CartProductOutput struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Quantity   int64   `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// カートのスナップショット。更新系も必ずこれを返す
type CartOutput struct {
	ID         int64               `json:"id"`
	Products   []CartProductOutput `json:"products"`
	TotalPrice float64             `json:"total_price"`
}

type CartItemInput struct {
	ProductID int64
	Quantity  int64
}

// GetCart はカート取得（無ければ空のカートを作ってセッションに紐付ける）。
func (u *CartUsecase) GetCart(ctx context.Context, sessionToken string) (CartOutput, error) {
	if sessionToken == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "missing session")
	}

	var out CartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := u.resolveOrCreateCart(ctx, r, sessionToken)
		if err != nil {
			return err
		}

		snapshot, _, err := buildCartOutput(ctx, r, cart)
		if err != nil {
			return err
		}
		snapshot.TotalPrice = cart.TotalPrice.InexactFloat64()

		out = snapshot
		return nil
	})

	if err != nil {
		return CartOutput{}, asUsecaseError(err)
	}
	return out, nil
}

// AddItem はカートに追加（同一商品は数量加算）。
// 戻り値のcreatedは明細が新規作成されたかどうか。
func (u *CartUsecase) AddItem(ctx context.Context, sessionToken string, in CartItemInput) (CartOutput, bool, error) {
	if sessionToken == "" {
		return CartOutput{}, false, NewHTTPError(http.StatusBadRequest, "missing session")
	}
	if in.ProductID <= 0 {
		return CartOutput{}, false, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	var out CartOutput
	var created bool

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := u.resolveOrCreateCart(ctx, r, sessionToken)
		if err != nil {
			return err
		}

		//同一カートへの同時追加をロックで直列化
		cart, err = r.Carts().FindByIDForUpdate(ctx, cart.ID)
		if err != nil {
			return err
		}

		product, err := r.Products().FindByID(ctx, in.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return err
		}

		item, err := r.CartItems().FindByCartAndProduct(ctx, cart.ID, product.ID)
		switch {
		case err == nil:
			// 既存あり。quantityはプラスする（置き換えではない）
			newQty := item.Quantity + in.Quantity
			if newQty <= 0 {
				return NewHTTPError(http.StatusUnprocessableEntity, "quantity must be greater than 0")
			}
			if err := r.CartItems().UpdateQuantity(ctx, item.ID, newQty); err != nil {
				return err
			}

		case errors.Is(err, repo.ErrNotFound):
			//無い場合は新規作成
			if in.Quantity <= 0 {
				return NewHTTPError(http.StatusUnprocessableEntity, "quantity must be greater than 0")
			}
			now := u.clock.Now()
			if _, err := r.CartItems().Create(ctx, model.CartItem{
				CartID:    cart.ID,
				ProductID: product.ID,
				Quantity:  in.Quantity,
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				return err
			}
			created = true

		default:
			return err
		}

		snapshot, err := u.recomputeAndTouch(ctx, r, cart)
		if err != nil {
			return err
		}

		out = snapshot
		return nil
	})

	if err != nil {
		return CartOutput{}, false, asUsecaseError(err)
	}
	return out, created, nil
}

// UpdateItem は数量変更のエントリポイント。
// 参照実装の挙動をそのまま引き継いでいて、置き換えではなくAddItemと同じ加算になる。
func (u *CartUsecase) UpdateItem(ctx context.Context, sessionToken string, in CartItemInput) (CartOutput, error) {
	out, _, err := u.AddItem(ctx, sessionToken, in)
	return out, err
}

// RemoveItem は明細を削除。カートに無い商品は404（no-op成功にはしない）。
func (u *CartUsecase) RemoveItem(ctx context.Context, sessionToken string, productID int64) (CartOutput, error) {
	if sessionToken == "" {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "missing session")
	}
	if productID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	var out CartOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := u.resolveOrCreateCart(ctx, r, sessionToken)
		if err != nil {
			return err
		}

		cart, err = r.Carts().FindByIDForUpdate(ctx, cart.ID)
		if err != nil {
			return err
		}

		product, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return err
		}

		if err := r.CartItems().DeleteByCartAndProduct(ctx, cart.ID, product.ID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "product not found in cart")
			}
			return err
		}

		snapshot, err := u.recomputeAndTouch(ctx, r, cart)
		if err != nil {
			return err
		}

		out = snapshot
		return nil
	})

	if err != nil {
		return CartOutput{}, asUsecaseError(err)
	}
	return out, nil
}

// セッショントークンからカートを解決。無ければ作って紐付ける
func (u *CartUsecase) resolveOrCreateCart(ctx context.Context, r repo.TxRepos, token string) (model.Cart, error) {
	session, err := r.Sessions().FindByToken(ctx, token)

	if err == nil {
		cart, findErr := r.Carts().FindByID(ctx, session.CartID)
		if findErr == nil {
			return cart, nil
		}
		if !errors.Is(findErr, repo.ErrNotFound) {
			return model.Cart{}, findErr
		}
		// カートはSweeperに消されている。古い紐付けを捨てて作り直す
		if delErr := r.Sessions().DeleteByCartID(ctx, session.CartID); delErr != nil {
			return model.Cart{}, delErr
		}
	} else if !errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, err
	}

	now := u.clock.Now()
	cart, err := r.Carts().Create(ctx, now)
	if err != nil {
		return model.Cart{}, err
	}

	if err := r.Sessions().Create(ctx, model.CartSession{
		Token:     token,
		CartID:    cart.ID,
		CreatedAt: now,
	}); err != nil {
		return model.Cart{}, err
	}

	return cart, nil
}

// 合計を再計算して最終アクティビティを更新し、確定後のスナップショットを返す
func (u *CartUsecase) recomputeAndTouch(ctx context.Context, r repo.TxRepos, cart model.Cart) (CartOutput, error) {
	snapshot, total, err := buildCartOutput(ctx, r, cart)
	if err != nil {
		return CartOutput{}, err
	}

	now := u.clock.Now()
	if err := r.Carts().UpdateTotalAndActivity(ctx, cart.ID, total, now); err != nil {
		return CartOutput{}, err
	}

	snapshot.TotalPrice = total.InexactFloat64()
	return snapshot, nil
}

// 明細と商品からスナップショットと合計を組み立てる
func buildCartOutput(ctx context.Context, r repo.TxRepos, cart model.Cart) (CartOutput, decimal.Decimal, error) {
	items, err := r.CartItems().ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartOutput{}, decimal.Zero, err
	}

	products := make([]CartProductOutput, 0, len(items))
	total := decimal.Zero

	for _, item := range items {
		p, err := r.Products().FindByID(ctx, item.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return CartOutput{}, decimal.Zero, err
		}

		lineTotal := p.Price.Mul(decimal.NewFromInt(item.Quantity))

		products = append(products, CartProductOutput{
			ID:         p.ID,
			Name:       p.Name,
			Quantity:   item.Quantity,
			UnitPrice:  p.Price.InexactFloat64(),
			TotalPrice: lineTotal.InexactFloat64(),
		})

		total = total.Add(lineTotal)
	}

	return CartOutput{
		ID:       cart.ID,
		Products: products,
	}, total, nil
}

// HTTPError以外（DB起因など）は500に寄せる
func asUsecaseError(err error) error {
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	return NewHTTPError(http.StatusInternalServerError, "db error")
}
