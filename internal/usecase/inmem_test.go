package usecase_test

import (
	"context"
	"sort"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// =====================
// テスト用インメモリ実装
// =====================

type memStore struct {
	products map[int64]model.Product
	carts    map[int64]model.Cart
	items    map[int64]model.CartItem
	sessions map[string]model.CartSession

	nextCartID int64
	nextItemID int64

	// 失敗注入
	failUpdateTotal error
	failMarkIDs     map[int64]error
	failDeleteIDs   map[int64]error
}

func newMemStore() *memStore {
	return &memStore{
		products:      map[int64]model.Product{},
		carts:         map[int64]model.Cart{},
		items:         map[int64]model.CartItem{},
		sessions:      map[string]model.CartSession{},
		failMarkIDs:   map[int64]error{},
		failDeleteIDs: map[int64]error{},
	}
}

func (s *memStore) addProduct(id int64, name string, price string) {
	s.products[id] = model.Product{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
}

func (s *memStore) addCart(id int64, abandoned bool, lastActivity time.Time) {
	s.carts[id] = model.Cart{
		ID:             id,
		TotalPrice:     decimal.Zero,
		Abandoned:      abandoned,
		LastActivityAt: lastActivity,
	}
	if id >= s.nextCartID {
		s.nextCartID = id
	}
}

type memCartRepo struct{ s *memStore }

func (r *memCartRepo) Create(ctx context.Context, now time.Time) (model.Cart, error) {
	r.s.nextCartID++
	cart := model.Cart{
		ID:             r.s.nextCartID,
		TotalPrice:     decimal.Zero,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.s.carts[cart.ID] = cart
	return cart, nil
}

func (r *memCartRepo) FindByID(ctx context.Context, cartID int64) (model.Cart, error) {
	cart, ok := r.s.carts[cartID]
	if !ok {
		return model.Cart{}, repo.ErrNotFound
	}
	return cart, nil
}

func (r *memCartRepo) FindByIDForUpdate(ctx context.Context, cartID int64) (model.Cart, error) {
	return r.FindByID(ctx, cartID)
}

func (r *memCartRepo) UpdateTotalAndActivity(ctx context.Context, cartID int64, total decimal.Decimal, at time.Time) error {
	if r.s.failUpdateTotal != nil {
		return r.s.failUpdateTotal
	}
	cart, ok := r.s.carts[cartID]
	if !ok {
		return repo.ErrNotFound
	}
	cart.TotalPrice = total
	cart.LastActivityAt = at
	r.s.carts[cartID] = cart
	return nil
}

// SQLの「last_activity_at < ?」と同じstrict比較
func (r *memCartRepo) ListToBeMarkedAsAbandoned(ctx context.Context, olderThan time.Time) ([]model.Cart, error) {
	var out []model.Cart
	for _, cart := range r.s.carts {
		if !cart.Abandoned && cart.LastActivityAt.Before(olderThan) {
			out = append(out, cart)
		}
	}
	sortCarts(out)
	return out, nil
}

func (r *memCartRepo) ListToBeRemoved(ctx context.Context, olderThan time.Time) ([]model.Cart, error) {
	var out []model.Cart
	for _, cart := range r.s.carts {
		if cart.LastActivityAt.Before(olderThan) {
			out = append(out, cart)
		}
	}
	sortCarts(out)
	return out, nil
}

func (r *memCartRepo) MarkAsAbandoned(ctx context.Context, cartID int64) error {
	if err := r.s.failMarkIDs[cartID]; err != nil {
		return err
	}
	cart, ok := r.s.carts[cartID]
	if !ok {
		return repo.ErrNotFound
	}
	cart.Abandoned = true
	r.s.carts[cartID] = cart
	return nil
}

func (r *memCartRepo) DeleteWithItems(ctx context.Context, cartID int64) error {
	if err := r.s.failDeleteIDs[cartID]; err != nil {
		return err
	}
	if _, ok := r.s.carts[cartID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.carts, cartID)
	for id, item := range r.s.items {
		if item.CartID == cartID {
			delete(r.s.items, id)
		}
	}
	for token, session := range r.s.sessions {
		if session.CartID == cartID {
			delete(r.s.sessions, token)
		}
	}
	return nil
}

func sortCarts(carts []model.Cart) {
	sort.Slice(carts, func(i, j int) bool { return carts[i].ID < carts[j].ID })
}

type memCartItemRepo struct{ s *memStore }

func (r *memCartItemRepo) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var out []model.CartItem
	for _, item := range r.s.items {
		if item.CartID == cartID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memCartItemRepo) FindByCartAndProduct(ctx context.Context, cartID int64, productID int64) (model.CartItem, error) {
	for _, item := range r.s.items {
		if item.CartID == cartID && item.ProductID == productID {
			return item, nil
		}
	}
	return model.CartItem{}, repo.ErrNotFound
}

func (r *memCartItemRepo) Create(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	r.s.nextItemID++
	item.ID = r.s.nextItemID
	r.s.items[item.ID] = item
	return item, nil
}

func (r *memCartItemRepo) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	item, ok := r.s.items[cartItemID]
	if !ok {
		return repo.ErrNotFound
	}
	item.Quantity = qty
	r.s.items[cartItemID] = item
	return nil
}

func (r *memCartItemRepo) DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error {
	for id, item := range r.s.items {
		if item.CartID == cartID && item.ProductID == productID {
			delete(r.s.items, id)
			return nil
		}
	}
	return repo.ErrNotFound
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) FindByID(ctx context.Context, productID int64) (model.Product, error) {
	p, ok := r.s.products[productID]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r *memProductRepo) List(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memSessionRepo struct{ s *memStore }

func (r *memSessionRepo) FindByToken(ctx context.Context, token string) (model.CartSession, error) {
	session, ok := r.s.sessions[token]
	if !ok {
		return model.CartSession{}, repo.ErrNotFound
	}
	return session, nil
}

func (r *memSessionRepo) Create(ctx context.Context, session model.CartSession) error {
	r.s.sessions[session.Token] = session
	return nil
}

func (r *memSessionRepo) DeleteByCartID(ctx context.Context, cartID int64) error {
	for token, session := range r.s.sessions {
		if session.CartID == cartID {
			delete(r.s.sessions, token)
		}
	}
	return nil
}

type memTxRepos struct{ s *memStore }

func (r *memTxRepos) Carts() repo.CartRepository           { return &memCartRepo{s: r.s} }
func (r *memTxRepos) CartItems() repo.CartItemRepository   { return &memCartItemRepo{s: r.s} }
func (r *memTxRepos) Products() repo.ProductRepository     { return &memProductRepo{s: r.s} }
func (r *memTxRepos) Sessions() repo.CartSessionRepository { return &memSessionRepo{s: r.s} }

type memTxManager struct{ s *memStore }

func (tm *memTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(&memTxRepos{s: tm.s})
}

// テスト用の固定時刻
type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }
