package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// likeInsensitiveExpr 构建不区分大小写的 LIKE 条件，参数需已转小写。
func likeInsensitiveExpr(db *gorm.DB, column string) string {
	return likeInsensitiveExprByDialect(dbDialectName(db), column)
}

func likeInsensitiveExprByDialect(dialect, column string) string {
	switch dialect {
	case "postgres", "postgresql":
		return fmt.Sprintf("%s ILIKE ?", column)
	default:
		// sqlite 与 mysql 统一转小写比较
		return fmt.Sprintf("LOWER(%s) LIKE ?", column)
	}
}

// buildLikePattern 包裹成包含匹配
func buildLikePattern(keyword string) string {
	return "%" + strings.ToLower(strings.TrimSpace(keyword)) + "%"
}
