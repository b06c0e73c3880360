package domain

import (
	"time"

	"gorm.io/gorm"
)

// Audit 审计字段（操作者由 service 层显式传入的 principal 写入）
type Audit struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
	CreatedBy string    `gorm:"size:36" json:"createdBy,omitempty"`
	UpdatedBy string    `gorm:"size:36" json:"updatedBy,omitempty"`
}

// SoftDelete 软删标记；默认查询自动排除已删行
type SoftDelete struct {
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s SoftDelete) IsActive() bool { return !s.DeletedAt.Valid }

// Versioned 乐观锁版本号，从 1 开始，每次成功更新 +1
type Versioned struct {
	Version int64 `gorm:"not null;default:1" json:"version"`
}

// Auditable / SoftDeletable 能力接口（组合，不做基类继承）
type Auditable interface{ Stamp(actor string, isCreate bool) }
type SoftDeletable interface{ IsActive() bool }

func (a *Audit) Stamp(actor string, isCreate bool) {
	if isCreate {
		a.CreatedBy = actor
	}
	a.UpdatedBy = actor
}
