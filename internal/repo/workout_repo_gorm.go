package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-workout-tracker/internal/domain"
)

type WorkoutRepo struct{ db *gorm.DB }

func NewWorkoutRepo(db *gorm.DB) *WorkoutRepo { return &WorkoutRepo{db: db} }

// ---------- sessions ----------

func (r *WorkoutRepo) CreateSession(ctx context.Context, w *domain.WorkoutSession) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WorkoutRepo) FindSessionByID(ctx context.Context, id string) (*domain.WorkoutSession, error) {
	return r.findSession(ctx, id, false)
}

func (r *WorkoutRepo) FindSessionByIDIncludingDeleted(ctx context.Context, id string) (*domain.WorkoutSession, error) {
	return r.findSession(ctx, id, true)
}

func (r *WorkoutRepo) findSession(ctx context.Context, id string, withDeleted bool) (*domain.WorkoutSession, error) {
	var w domain.WorkoutSession
	q := scope(r.db.WithContext(ctx), withDeleted).
		Preload("Exercises", func(tx *gorm.DB) *gorm.DB { return tx.Order("order_in_workout ASC") }).
		Preload("Exercises.Exercise").
		Preload("Exercises.StrengthSets", setOrder).
		Preload("Exercises.CardioSets", setOrder).
		Preload("Exercises.FlexibilitySets", setOrder)
	err := q.First(&w, "workout_sessions.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func setOrder(tx *gorm.DB) *gorm.DB { return tx.Order("set_number ASC") }

func (r *WorkoutRepo) ListSessionsByUser(ctx context.Context, userID string, offset, limit int, withDeleted bool) ([]domain.WorkoutSession, int64, error) {
	q := scope(r.db.WithContext(ctx).Model(&domain.WorkoutSession{}), withDeleted).
		Where("user_id = ?", userID)
	return r.listSessions(q, offset, limit)
}

func (r *WorkoutRepo) ListSessions(ctx context.Context, offset, limit int, withDeleted bool) ([]domain.WorkoutSession, int64, error) {
	q := scope(r.db.WithContext(ctx).Model(&domain.WorkoutSession{}), withDeleted)
	return r.listSessions(q, offset, limit)
}

func (r *WorkoutRepo) listSessions(q *gorm.DB, offset, limit int) ([]domain.WorkoutSession, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.WorkoutSession
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// CountActiveByUser 用户删除前的依赖检查
func (r *WorkoutRepo) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.WorkoutSession{}).
		Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// UpdateSession 乐观锁更新，状态机动作也走这条路径
func (r *WorkoutRepo) UpdateSession(ctx context.Context, w *domain.WorkoutSession, expectedVersion int64) error {
	res := r.db.WithContext(ctx).Model(&domain.WorkoutSession{}).
		Where("id = ? AND version = ?", w.ID, expectedVersion).
		Updates(map[string]any{
			"name":         w.Name,
			"notes":        w.Notes,
			"status":       w.Status,
			"started_at":   w.StartedAt,
			"completed_at": w.CompletedAt,
			"updated_by":   w.UpdatedBy,
			"version":      expectedVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindSessionByID(ctx, w.ID); err != nil {
			return err
		}
		return domain.ErrVersionConflict
	}
	w.Version = expectedVersion + 1
	return nil
}

func (r *WorkoutRepo) SoftDeleteSession(ctx context.Context, id string) error {
	w, err := r.FindSessionByIDIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}
	if !w.IsActive() {
		return nil
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.WorkoutSession{}).Error
}

func (r *WorkoutRepo) RestoreSession(ctx context.Context, id string) error {
	w, err := r.FindSessionByIDIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}
	if w.IsActive() {
		return domain.NewBusinessRule("workout session %s is not deleted", id)
	}
	return r.db.WithContext(ctx).Unscoped().Model(&domain.WorkoutSession{}).
		Where("id = ?", id).Update("deleted_at", nil).Error
}

// ---------- workout exercises ----------

func (r *WorkoutRepo) AddWorkoutExercise(ctx context.Context, we *domain.WorkoutExercise) error {
	return r.db.WithContext(ctx).Create(we).Error
}

func (r *WorkoutRepo) FindWorkoutExerciseByID(ctx context.Context, id string) (*domain.WorkoutExercise, error) {
	return r.findWorkoutExercise(ctx, id, false)
}

func (r *WorkoutRepo) FindWorkoutExerciseByIDIncludingDeleted(ctx context.Context, id string) (*domain.WorkoutExercise, error) {
	return r.findWorkoutExercise(ctx, id, true)
}

func (r *WorkoutRepo) findWorkoutExercise(ctx context.Context, id string, withDeleted bool) (*domain.WorkoutExercise, error) {
	var we domain.WorkoutExercise
	err := scope(r.db.WithContext(ctx), withDeleted).Preload("Exercise").First(&we, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &we, nil
}

// NextOrder 返回会话内下一个顺序号
func (r *WorkoutRepo) NextOrder(ctx context.Context, sessionID string) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&domain.WorkoutExercise{}).
		Where("session_id = ?", sessionID).
		Select("COALESCE(MAX(order_in_workout), 0)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *WorkoutRepo) SoftDeleteWorkoutExercise(ctx context.Context, id string) error {
	return r.softDeleteChild(ctx, &domain.WorkoutExercise{}, "id = ?", id)
}

// softDeleteChild 子实体软删：已软删时幂等返回成功，从未存在才报 not found
func (r *WorkoutRepo) softDeleteChild(ctx context.Context, row any, query string, args ...any) error {
	conds := append([]any{query}, args...)
	err := r.db.WithContext(ctx).Unscoped().First(row, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if sd, ok := row.(domain.SoftDeletable); ok && !sd.IsActive() {
		return nil
	}
	return r.db.WithContext(ctx).Where(query, args...).Delete(row).Error
}

// ---------- typed sets ----------

func (r *WorkoutRepo) AddStrengthSet(ctx context.Context, s *domain.StrengthSet) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *WorkoutRepo) AddCardioSet(ctx context.Context, s *domain.CardioSet) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *WorkoutRepo) AddFlexibilitySet(ctx context.Context, s *domain.FlexibilitySet) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// setModel 组类型到 gorm 模型
func setModel(t domain.ExerciseType) any {
	switch t {
	case domain.ExerciseStrength:
		return &domain.StrengthSet{}
	case domain.ExerciseCardio:
		return &domain.CardioSet{}
	default:
		return &domain.FlexibilitySet{}
	}
}

// NextSetNumber 组号在所属 workout exercise 内单调递增
func (r *WorkoutRepo) NextSetNumber(ctx context.Context, t domain.ExerciseType, workoutExerciseID string) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(setModel(t)).
		Where("workout_exercise_id = ?", workoutExerciseID).
		Select("COALESCE(MAX(set_number), 0)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *WorkoutRepo) SoftDeleteSet(ctx context.Context, t domain.ExerciseType, workoutExerciseID, setID string) error {
	return r.softDeleteChild(ctx, setModel(t), "id = ? AND workout_exercise_id = ?", setID, workoutExerciseID)
}
