package models

import "time"

// Order 订单表
type Order struct {
	ID             uint       `gorm:"primarykey" json:"id"`                                     // 主键
	OrderNumber    string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"orderNumber"` // 订单号 ORD-YYYYMMDD-RRRR
	Status         string     `gorm:"type:varchar(20);not null;index" json:"status"`            // 订单状态
	UserID         *uint      `gorm:"index" json:"userId,omitempty"`                            // 下单用户（游客为空）
	CustomerEmail  string     `gorm:"type:varchar(255);not null;index" json:"customerEmail"`    // 收件邮箱
	CustomerName   string     `gorm:"type:varchar(255)" json:"customerName"`                    // 收件人
	Address        string     `gorm:"type:varchar(500);not null" json:"address"`                // 地址
	Apartment      string     `gorm:"type:varchar(255)" json:"apartment"`                       // 门牌/公寓
	City           string     `gorm:"type:varchar(120);not null" json:"city"`                   // 城市
	PostalCode     string     `gorm:"type:varchar(32)" json:"postalCode"`                       // 邮编
	Phone          string     `gorm:"type:varchar(64)" json:"phone"`                            // 电话
	Notes          string     `gorm:"type:text" json:"notes"`                                   // 备注
	Currency       string     `gorm:"type:varchar(8);not null" json:"currency"`                 // 币种
	Subtotal       Money      `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`    // 商品小计
	Shipping       Money      `gorm:"type:decimal(20,2);not null;default:0" json:"shipping"`    // 运费
	Total          Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total"`       // 合计 = 小计 + 运费
	TrackingNumber *string    `gorm:"type:varchar(255)" json:"trackingNumber"`                  // 物流单号
	TrackingURL    *string    `gorm:"type:varchar(500)" json:"trackingUrl"`                     // 物流查询地址
	CreatedAt      time.Time  `gorm:"index" json:"createdAt"`                                   // 创建时间
	UpdatedAt      time.Time  `json:"updatedAt"`                                                // 更新时间
	ShippedAt      *time.Time `json:"shippedAt"`                                                // 首次发货时间
	DeliveredAt    *time.Time `json:"deliveredAt"`                                              // 首次送达时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
