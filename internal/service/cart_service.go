package service

import (
	"context"

	"github.com/indra-store/internal/cart"
	"github.com/indra-store/internal/repository"
)

// AddCartItemInput 加购参数
type AddCartItemInput struct {
	ProductID uint `json:"productId" binding:"required"`
	Qty       int  `json:"qty"`
}

// CartService 购物车服务
// 加购时以商品当前的名称、价格与首图作为条目快照。
type CartService struct {
	store       *cart.Store
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(store *cart.Store, productRepo repository.ProductRepository) *CartService {
	return &CartService{store: store, productRepo: productRepo}
}

// Store 返回底层购物车存储
func (s *CartService) Store() *cart.Store {
	return s.store
}

// Get 获取购物车
func (s *CartService) Get(ctx context.Context, token string) (cart.Summary, error) {
	return s.store.Summary(ctx, token)
}

// AddItem 加入商品
func (s *CartService) AddItem(ctx context.Context, token string, input AddCartItemInput) (cart.Summary, error) {
	if input.ProductID == 0 {
		return cart.Summary{}, ErrProductNotFound
	}
	if !cart.ValidToken(token) {
		return cart.Summary{}, cart.ErrTokenInvalid
	}
	product, err := s.productRepo.GetActiveByID(input.ProductID)
	if err != nil {
		return cart.Summary{}, err
	}
	if product == nil {
		return cart.Summary{}, ErrProductUnavailable
	}
	return s.store.Add(ctx, token, cart.Item{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.PriceAmount.Decimal,
		Image:     product.PrimaryImage(),
		Qty:       input.Qty,
	})
}

// Increment 数量加一
func (s *CartService) Increment(ctx context.Context, token string, productID uint) (cart.Summary, error) {
	return s.store.Increment(ctx, token, productID)
}

// Decrement 数量减一（最低 1）
func (s *CartService) Decrement(ctx context.Context, token string, productID uint) (cart.Summary, error) {
	return s.store.Decrement(ctx, token, productID)
}

// Remove 移除条目
func (s *CartService) Remove(ctx context.Context, token string, productID uint) (cart.Summary, error) {
	return s.store.Remove(ctx, token, productID)
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, token string) error {
	return s.store.Clear(ctx, token)
}
