package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-workout-tracker/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if IsDupKey(err) {
		// 并发兜底：预检之后仍可能撞唯一索引
		return &domain.ConflictError{Field: "username/email", Value: u.Username}
	}
	return err
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id, false)
}

func (r *UserRepo) FindByIDIncludingDeleted(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id, true)
}

func (r *UserRepo) findByID(ctx context.Context, id string, withDeleted bool) (*domain.User, error) {
	var u domain.User
	err := scope(r.db.WithContext(ctx), withDeleted).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, offset, limit int, withDeleted bool) ([]domain.User, int64, error) {
	q := scope(r.db.WithContext(ctx).Model(&domain.User{}), withDeleted)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update 乐观锁更新：以读取时的 version 为条件，成功则 +1
func (r *UserRepo) Update(ctx context.Context, u *domain.User, expectedVersion int64) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND version = ?", u.ID, expectedVersion).
		Updates(map[string]any{
			"username":   u.Username,
			"email":      u.Email,
			"role":       u.Role,
			"updated_by": u.UpdatedBy,
			"version":    expectedVersion + 1,
		})
	if IsDupKey(res.Error) {
		return &domain.ConflictError{Field: "username/email", Value: u.Username}
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, u.ID); err != nil {
			return err
		}
		return domain.ErrVersionConflict
	}
	u.Version = expectedVersion + 1
	return nil
}

// SoftDelete 置删除时间戳；目标已软删时幂等返回成功
func (r *UserRepo) SoftDelete(ctx context.Context, id string) error {
	u, err := r.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}
	if !u.IsActive() {
		return nil
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{}).Error
}

// Restore 清除删除时间戳；目标未删除时报业务错误
func (r *UserRepo) Restore(ctx context.Context, id string) error {
	u, err := r.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}
	if u.IsActive() {
		return domain.NewBusinessRule("user %s is not deleted", id)
	}
	return r.db.WithContext(ctx).Unscoped().Model(&domain.User{}).
		Where("id = ?", id).Update("deleted_at", nil).Error
}
