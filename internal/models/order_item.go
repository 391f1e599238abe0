package models

import "time"

// OrderItem 订单项表（下单时的商品快照）
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                               // 主键
	OrderID   uint      `gorm:"not null;index" json:"orderId"`                      // 订单ID
	ProductID *uint     `gorm:"index" json:"productId,omitempty"`                   // 商品ID（外键，限制删除）
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`             // 商品名称快照
	Price     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价快照
	Qty       int       `gorm:"not null" json:"qty"`                                // 数量
	Image     string    `gorm:"type:varchar(500)" json:"image,omitempty"`           // 图片快照
	CreatedAt time.Time `json:"createdAt"`                                          // 创建时间

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"` // 被引用的商品，存在引用时禁止删除
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal 单行金额
func (i OrderItem) LineTotal() Money {
	return i.Price.Times(i.Qty)
}
