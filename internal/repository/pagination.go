package repository

import "gorm.io/gorm"

const maxPageSize = 100

// newestFirstPage 统计总数后按最新优先取出一页；pageSize <= 0 时不分页
func newestFirstPage(query *gorm.DB, page, pageSize int) (*gorm.DB, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = query.Order("created_at DESC, id DESC")
	if pageSize <= 0 {
		return query, total, nil
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize), total, nil
}
