package models

import "time"

// Product 商品表
type Product struct {
	ID          uint      `gorm:"primarykey" json:"id"`                               // 主键
	CategoryID  uint      `gorm:"not null;index" json:"categoryId"`                   // 分类ID
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`             // 商品名称
	Slug        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"` // URL 标识（由名称生成，更新时保持不变）
	Description string    `gorm:"type:text" json:"description"`                       // 商品描述
	PriceAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 价格
	IsActive    bool      `gorm:"not null;index" json:"isActive"`                     // 是否上架
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`                             // 创建时间
	UpdatedAt   time.Time `json:"updatedAt"`                                          // 更新时间

	// 关联
	Category  *Category      `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Images    []ProductImage `gorm:"foreignKey:ProductID" json:"images"`              // 图片列表
	Inventory *Inventory     `gorm:"foreignKey:ProductID" json:"inventory,omitempty"` // 库存记录
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// PrimaryImage 返回首张图片地址
func (p *Product) PrimaryImage() string {
	if p == nil || len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// ProductImage 商品图片表
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`                  // 主键
	ProductID uint      `gorm:"not null;index" json:"productId"`       // 商品ID
	URL       string    `gorm:"type:varchar(500);not null" json:"url"` // 公开访问路径
	CreatedAt time.Time `json:"createdAt"`                             // 创建时间
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "product_images"
}

// Inventory 商品库存表（不参与下单校验）
type Inventory struct {
	ID                uint      `gorm:"primarykey" json:"id"`                  // 主键
	ProductID         uint      `gorm:"not null;uniqueIndex" json:"productId"` // 商品ID
	QtyOnHand         int       `gorm:"not null;default:0" json:"qtyOnHand"`   // 在库数量
	LowStockThreshold int       `gorm:"not null" json:"lowStockThreshold"`     // 低库存阈值
	UpdatedAt         time.Time `json:"updatedAt"`                             // 更新时间
}

// TableName 指定表名
func (Inventory) TableName() string {
	return "inventories"
}

// IsLowStock 是否低于阈值
func (i *Inventory) IsLowStock() bool {
	return i != nil && i.QtyOnHand <= i.LowStockThreshold
}
