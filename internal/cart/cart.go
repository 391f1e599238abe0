// Package cart 实现服务端购物车存储：整表读改写、数量下限为 1、变更事件订阅。
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/indra-store/internal/constants"
	"github.com/indra-store/internal/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrTokenInvalid 购物车令牌无效
	ErrTokenInvalid = errors.New("cart token invalid")
	// ErrItemInvalid 购物车条目无效
	ErrItemInvalid = errors.New("cart item invalid")
	// ErrItemNotFound 条目不在购物车中
	ErrItemNotFound = errors.New("cart item not found")
)

const defaultMaxQty = 99

// Item 购物车条目，以商品 ID 为键
type Item struct {
	ProductID uint            `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Qty       int             `json:"qty"`
}

// LineTotal 单行金额
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

// Summary 购物车汇总
type Summary struct {
	Items    []Item          `json:"items"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Summarize 计算件数与小计
func Summarize(items []Item) Summary {
	summary := Summary{Items: items, Subtotal: decimal.Zero}
	if summary.Items == nil {
		summary.Items = []Item{}
	}
	for _, item := range items {
		summary.Count += item.Qty
		summary.Subtotal = summary.Subtotal.Add(item.LineTotal())
	}
	return summary
}

// Event 购物车变更事件
type Event struct {
	Type  string
	Token string
	Items []Item
}

// Option 购物车配置项
type Option func(*Store)

// WithMaxQty 设置单个条目的数量上限
func WithMaxQty(maxQty int) Option {
	return func(s *Store) {
		if maxQty > 0 {
			s.maxQty = maxQty
		}
	}
}

// Store 购物车存储
// 每次变更都在锁内完整读出、修改并写回整个列表。
type Store struct {
	storage Storage
	maxQty  int

	mu sync.Mutex

	subMu       sync.RWMutex
	subscribers map[int]chan Event
	nextSubID   int
}

// NewStore 创建购物车存储
func NewStore(storage Storage, opts ...Option) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	s := &Store{
		storage:     storage,
		maxQty:      defaultMaxQty,
		subscribers: make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewToken 生成新的购物车令牌
func NewToken() string {
	return uuid.NewString()
}

// ValidToken 校验令牌格式
func ValidToken(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}
	_, err := uuid.Parse(token)
	return err == nil
}

// Items 读取购物车条目
func (s *Store) Items(ctx context.Context, token string) ([]Item, error) {
	if !ValidToken(token) {
		return nil, ErrTokenInvalid
	}
	return s.load(ctx, token)
}

// Summary 读取购物车汇总
func (s *Store) Summary(ctx context.Context, token string) (Summary, error) {
	items, err := s.Items(ctx, token)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(items), nil
}

// Add 加入商品：已存在时累加数量，否则追加
// item.Qty <= 0 时按 1 处理。
func (s *Store) Add(ctx context.Context, token string, item Item) (Summary, error) {
	if item.ProductID == 0 || strings.TrimSpace(item.Name) == "" || item.Price.IsNegative() {
		return Summary{}, ErrItemInvalid
	}
	qty := item.Qty
	if qty <= 0 {
		qty = 1
	}
	return s.mutate(ctx, token, constants.CartEventUpdated, func(items []Item) ([]Item, error) {
		for i := range items {
			if items[i].ProductID == item.ProductID {
				items[i].Qty = s.clampQty(items[i].Qty + qty)
				return items, nil
			}
		}
		item.Name = strings.TrimSpace(item.Name)
		item.Qty = s.clampQty(qty)
		return append(items, item), nil
	})
}

// Increment 数量加一
func (s *Store) Increment(ctx context.Context, token string, productID uint) (Summary, error) {
	return s.mutate(ctx, token, constants.CartEventUpdated, func(items []Item) ([]Item, error) {
		for i := range items {
			if items[i].ProductID == productID {
				items[i].Qty = s.clampQty(items[i].Qty + 1)
				return items, nil
			}
		}
		return nil, ErrItemNotFound
	})
}

// Decrement 数量减一，最低保留 1 件（不会因此移除条目）
func (s *Store) Decrement(ctx context.Context, token string, productID uint) (Summary, error) {
	return s.mutate(ctx, token, constants.CartEventUpdated, func(items []Item) ([]Item, error) {
		for i := range items {
			if items[i].ProductID == productID {
				if items[i].Qty > 1 {
					items[i].Qty--
				}
				return items, nil
			}
		}
		return nil, ErrItemNotFound
	})
}

// Remove 移除条目，不存在时视为成功
func (s *Store) Remove(ctx context.Context, token string, productID uint) (Summary, error) {
	return s.mutate(ctx, token, constants.CartEventUpdated, func(items []Item) ([]Item, error) {
		kept := items[:0]
		for _, item := range items {
			if item.ProductID != productID {
				kept = append(kept, item)
			}
		}
		return kept, nil
	})
}

// Clear 清空购物车
func (s *Store) Clear(ctx context.Context, token string) error {
	if !ValidToken(token) {
		return ErrTokenInvalid
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Delete(ctx, token); err != nil {
		return err
	}
	s.publish(Event{Type: constants.CartEventCleared, Token: token, Items: []Item{}})
	return nil
}

// Subscribe 订阅变更事件，返回事件通道与取消函数
// 订阅方消费过慢时事件会被丢弃，不会阻塞写入。
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Store) mutate(ctx context.Context, token, eventType string, fn func([]Item) ([]Item, error)) (Summary, error) {
	if !ValidToken(token) {
		return Summary{}, ErrTokenInvalid
	}
	// 事件在持锁期间发布，订阅者按提交顺序收到快照
	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load(ctx, token)
	if err != nil {
		return Summary{}, err
	}
	items, err = fn(items)
	if err != nil {
		return Summary{}, err
	}
	if err := s.save(ctx, token, items); err != nil {
		return Summary{}, err
	}

	snapshot := make([]Item, len(items))
	copy(snapshot, items)
	s.publish(Event{Type: eventType, Token: token, Items: snapshot})
	return Summarize(items), nil
}

func (s *Store) load(ctx context.Context, token string) ([]Item, error) {
	raw, err := s.storage.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	return decodeItems(token, raw), nil
}

func (s *Store) save(ctx context.Context, token string, items []Item) error {
	if len(items) == 0 {
		return s.storage.Delete(ctx, token)
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.storage.Save(ctx, token, payload)
}

func (s *Store) publish(event Event) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

func (s *Store) clampQty(qty int) int {
	if qty < 1 {
		return 1
	}
	if s.maxQty > 0 && qty > s.maxQty {
		return s.maxQty
	}
	return qty
}

// decodeItems 解析存储内容，格式损坏时按空购物车处理
func decodeItems(token string, raw []byte) []Item {
	if len(raw) == 0 {
		return []Item{}
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warnw("cart_payload_malformed", "token", token, "error", err)
		return []Item{}
	}
	valid := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ProductID == 0 {
			continue
		}
		if item.Qty < 1 {
			item.Qty = 1
		}
		valid = append(valid, item)
	}
	return valid
}
