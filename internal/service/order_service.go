package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/indra-store/internal/config"
	"github.com/indra-store/internal/constants"
	"github.com/indra-store/internal/logger"
	"github.com/indra-store/internal/models"
	"github.com/indra-store/internal/queue"
	"github.com/indra-store/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultOrderNumberAttempts = 5

// OrderService 前台订单服务
type OrderService struct {
	orderRepo      repository.OrderRepository
	cartService    *CartService
	captchaService *CaptchaService
	queueClient    *queue.Client
	cfg            config.OrderConfig
	now            func() time.Time
	newNumber      func(time.Time) (string, error)
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, cartService *CartService, captchaService *CaptchaService, queueClient *queue.Client, cfg config.OrderConfig) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		cartService:    cartService,
		captchaService: captchaService,
		queueClient:    queueClient,
		cfg:            cfg,
		now:            time.Now,
		newNumber:      generateOrderNumber,
	}
}

// CreateOrderItem 下单条目
type CreateOrderItem struct {
	ProductID *uint
	Name      string
	Price     models.Money
	Qty       int
	Image     string
}

// CreateOrderInput 创建订单输入
// UserID 只能来自已验证的会话。
type CreateOrderInput struct {
	UserID        uint
	CustomerEmail string
	CustomerName  string
	Address       string
	Apartment     string
	City          string
	PostalCode    string
	Phone         string
	Notes         string
	Items         []CreateOrderItem
	CartToken     string
	Captcha       CaptchaVerifyPayload
}

// CreateOrder 创建订单
// 条目为空且携带购物车令牌时，从服务端购物车取条目，成功后清空购物车。
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	email, err := normalizeCustomerEmail(input.CustomerEmail)
	if err != nil {
		return nil, err
	}
	address := strings.TrimSpace(input.Address)
	if address == "" {
		return nil, ErrAddressRequired
	}
	city := strings.TrimSpace(input.City)
	if city == "" {
		return nil, ErrCityRequired
	}
	if s.captchaService != nil {
		if err := s.captchaService.Verify(input.Captcha); err != nil {
			return nil, err
		}
	}

	items := input.Items
	cartToken := strings.TrimSpace(input.CartToken)
	fromCart := false
	if len(items) == 0 && cartToken != "" && s.cartService != nil {
		items, err = s.loadCartItems(ctx, cartToken)
		if err != nil {
			return nil, err
		}
		fromCart = len(items) > 0
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	orderItems, subtotal, err := buildOrderItems(items)
	if err != nil {
		return nil, err
	}
	shipping := models.NewMoneyFromFloat(s.cfg.ShippingFee)
	if shipping.IsNegative() {
		shipping = models.NewMoneyFromInt(0)
	}

	now := s.now()
	order := &models.Order{
		Status:        constants.OrderStatusProcessing,
		CustomerEmail: email,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		Address:       address,
		Apartment:     strings.TrimSpace(input.Apartment),
		City:          city,
		PostalCode:    strings.TrimSpace(input.PostalCode),
		Phone:         strings.TrimSpace(input.Phone),
		Notes:         strings.TrimSpace(input.Notes),
		Currency:      s.currency(),
		Subtotal:      subtotal,
		Shipping:      shipping,
		Total:         subtotal.Add(shipping),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.UserID != 0 {
		userID := input.UserID
		order.UserID = &userID
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		number, err := s.allocateOrderNumber(orderRepo, now)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		return orderRepo.Create(order, orderItems)
	})
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return nil, ErrOrderItemInvalid
	}
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"items", len(order.Items),
		"total", order.Total.String(),
	)

	if fromCart {
		if err := s.cartService.Clear(ctx, cartToken); err != nil {
			logger.Warnw("order_cart_clear_failed", "order_id", order.ID, "error", err)
		}
	}
	if err := s.queueClient.EnqueueOrderCreatedEmail(queue.OrderCreatedEmailPayload{OrderID: order.ID}); err != nil {
		logger.Warnw("order_created_email_enqueue_failed", "order_id", order.ID, "error", err)
	}
	return order, nil
}

// TrackOrder 按订单号与下单邮箱查询订单
func (s *OrderService) TrackOrder(orderNumber, email string) (*models.Order, error) {
	orderNumber = strings.ToUpper(strings.TrimSpace(orderNumber))
	email = strings.ToLower(strings.TrimSpace(email))
	if orderNumber == "" || email == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNumber(orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil || !strings.EqualFold(order.CustomerEmail, email) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListUserOrders 用户自己的订单
func (s *OrderService) ListUserOrders(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.ListByUser(repository.OrderListFilter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *OrderService) loadCartItems(ctx context.Context, token string) ([]CreateOrderItem, error) {
	cartItems, err := s.cartService.Store().Items(ctx, token)
	if err != nil {
		return nil, err
	}
	items := make([]CreateOrderItem, 0, len(cartItems))
	for _, item := range cartItems {
		productID := item.ProductID
		items = append(items, CreateOrderItem{
			ProductID: &productID,
			Name:      item.Name,
			Price:     models.NewMoneyFromDecimal(item.Price),
			Qty:       item.Qty,
			Image:     item.Image,
		})
	}
	return items, nil
}

// allocateOrderNumber 生成未被占用的订单号
func (s *OrderService) allocateOrderNumber(orderRepo repository.OrderRepository, now time.Time) (string, error) {
	attempts := s.cfg.NumberRetryAttempts
	if attempts <= 0 {
		attempts = defaultOrderNumberAttempts
	}
	for i := 0; i < attempts; i++ {
		number, err := s.newNumber(now)
		if err != nil {
			return "", err
		}
		exists, err := orderRepo.ExistsOrderNumber(number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
		logger.Debugw("order_number_collision", "order_number", number, "attempt", i+1)
	}
	return "", ErrOrderNumberExhausted
}

func (s *OrderService) currency() string {
	currency := strings.ToUpper(strings.TrimSpace(s.cfg.Currency))
	if currency == "" {
		return "LKR"
	}
	return currency
}

// generateOrderNumber 生成 ORD-YYYYMMDD-RRRR，RRRR 取 1000-9999
func generateOrderNumber(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%d", constants.OrderNumberPrefix, now.Format("20060102"), n.Int64()+1000), nil
}

func buildOrderItems(items []CreateOrderItem) ([]models.OrderItem, models.Money, error) {
	orderItems := make([]models.OrderItem, 0, len(items))
	subtotal := decimal.Zero
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" || item.Qty < 1 || item.Price.IsNegative() {
			return nil, models.Money{}, ErrOrderItemInvalid
		}
		var productID *uint
		if item.ProductID != nil && *item.ProductID != 0 {
			id := *item.ProductID
			productID = &id
		}
		price := models.NewMoneyFromDecimal(item.Price.Decimal)
		orderItem := models.OrderItem{
			ProductID: productID,
			Name:      name,
			Price:     price,
			Qty:       item.Qty,
			Image:     strings.TrimSpace(item.Image),
		}
		subtotal = subtotal.Add(orderItem.LineTotal().Decimal)
		orderItems = append(orderItems, orderItem)
	}
	return orderItems, models.NewMoneyFromDecimal(subtotal), nil
}

func normalizeCustomerEmail(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrCustomerEmailRequired
	}
	return normalizeEmail(raw)
}
