package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-workout-tracker/internal/domain"
)

type ExerciseRepo struct{ db *gorm.DB }

func NewExerciseRepo(db *gorm.DB) *ExerciseRepo { return &ExerciseRepo{db: db} }

func (r *ExerciseRepo) Create(ctx context.Context, e *domain.Exercise) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ExerciseRepo) FindByID(ctx context.Context, id string) (*domain.Exercise, error) {
	return r.findByID(ctx, id, false)
}

func (r *ExerciseRepo) FindByIDIncludingDeleted(ctx context.Context, id string) (*domain.Exercise, error) {
	return r.findByID(ctx, id, true)
}

func (r *ExerciseRepo) findByID(ctx context.Context, id string, withDeleted bool) (*domain.Exercise, error) {
	var e domain.Exercise
	err := scope(r.db.WithContext(ctx), withDeleted).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List 组合可选谓词：零值过滤条件直接跳过
func (r *ExerciseRepo) List(ctx context.Context, f domain.ExerciseFilter, offset, limit int) ([]domain.Exercise, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Exercise{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.MuscleGroup != "" {
		q = q.Where("muscle_group = ?", f.MuscleGroup)
	}
	if f.Difficulty != "" {
		q = q.Where("difficulty = ?", f.Difficulty)
	}
	if f.NameLike != "" {
		q = q.Where("name LIKE ?", "%"+f.NameLike+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.Exercise
	if err := q.Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ExerciseRepo) Update(ctx context.Context, e *domain.Exercise, expectedVersion int64) error {
	res := r.db.WithContext(ctx).Model(&domain.Exercise{}).
		Where("id = ? AND version = ?", e.ID, expectedVersion).
		Updates(map[string]any{
			"name":         e.Name,
			"type":         e.Type,
			"muscle_group": e.MuscleGroup,
			"difficulty":   e.Difficulty,
			"description":  e.Description,
			"updated_by":   e.UpdatedBy,
			"version":      expectedVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, e.ID); err != nil {
			return err
		}
		return domain.ErrVersionConflict
	}
	e.Version = expectedVersion + 1
	return nil
}

func (r *ExerciseRepo) SoftDelete(ctx context.Context, id string) error {
	e, err := r.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}
	if !e.IsActive() {
		return nil
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Exercise{}).Error
}

func (r *ExerciseRepo) Restore(ctx context.Context, id string) error {
	e, err := r.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}
	if e.IsActive() {
		return domain.NewBusinessRule("exercise %s is not deleted", id)
	}
	return r.db.WithContext(ctx).Unscoped().Model(&domain.Exercise{}).
		Where("id = ?", id).Update("deleted_at", nil).Error
}
