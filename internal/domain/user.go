package domain

type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Username     string `gorm:"size:64;not null;uniqueIndex:idx_users_username_active,where:deleted_at IS NULL" json:"username"`
	Email        string `gorm:"size:255;not null;uniqueIndex:idx_users_email_active,where:deleted_at IS NULL" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Role         Role   `gorm:"size:16;not null;default:USER" json:"role"`
	// 外部身份源 subject（可选，预留对接 IdP）
	ExternalSubject string `gorm:"size:191" json:"externalSubject,omitempty"`

	Audit
	Versioned
	SoftDelete
}

func (User) TableName() string { return "users" }

// Principal 已认证主体，由 transport 层解析 token 得到，service 层显式传参
type Principal struct {
	UserID string
	Role   Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

func (p Principal) CanManageCatalog() bool {
	return p.Role == RoleAdmin || p.Role == RoleModerator
}
