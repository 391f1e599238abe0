package constants

// 订单状态常量
const (
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// OrderNumberPrefix 订单号前缀
const OrderNumberPrefix = "ORD"

// 商品目录常量
const (
	CategorySlugNewArrivals      = "new-arrivals"
	DefaultLowStockThreshold     = 5
	DefaultProductImageExtension = ".jpg"
	UploadSceneProduct           = "products"
)

// 购物车事件类型
const (
	CartEventUpdated = "cart:updated"
	CartEventCleared = "cart:cleared"
)

// HTTP 头与上下文键
const (
	HeaderCartToken     = "X-Cart-Token"
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyRequestID = "request_id"
)

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskOrderCreatedEmail = "order:created_email"
	TaskOrderStatusEmail  = "order:status_email"
)

// 授权角色
const (
	RoleAdmin = "admin"
)
