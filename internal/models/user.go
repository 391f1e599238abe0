package models

import "time"

// User 顾客账号表
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`                                // 主键
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"` // 登录邮箱（小写）
	Name         string     `gorm:"type:varchar(255)" json:"name"`                       // 显示名称
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`                 // bcrypt 哈希
	LastLoginAt  *time.Time `json:"lastLoginAt"`                                         // 最近登录时间
	CreatedAt    time.Time  `json:"createdAt"`                                           // 创建时间
	UpdatedAt    time.Time  `json:"updatedAt"`                                           // 更新时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
