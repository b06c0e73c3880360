package repo

import (
	"strings"

	"gorm.io/gorm"
)

// scope 辅助：withDeleted=true 时绕过软删过滤
func scope(q *gorm.DB, withDeleted bool) *gorm.DB {
	if withDeleted {
		return q.Unscoped()
	}
	return q
}

// IsDupKey 唯一约束冲突判定，驱动差异大，按错误文本兜底
func IsDupKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "unique index")
}
