package service

import (
	"context"
	"strings"
	"time"

	"go-workout-tracker/internal/domain"
	"go-workout-tracker/internal/repo"
	"go-workout-tracker/pkg/utils"
)

// SessionInput 时间戳字段缺省表示保持不变，Clear* 显式置空
type SessionInput struct {
	Name             string     `json:"name"`
	Notes            string     `json:"notes"`
	StartedAt        *time.Time `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt"`
	ClearStartedAt   bool       `json:"clearStartedAt,omitempty"`
	ClearCompletedAt bool       `json:"clearCompletedAt,omitempty"`
	Version          int64      `json:"version"`
}

type AddExerciseInput struct {
	ExerciseID     string `json:"exerciseId"`
	OrderInWorkout int    `json:"orderInWorkout"`
	Notes          string `json:"notes"`
}

// AddSetInput 按 Type 取对应字段
type AddSetInput struct {
	Type        domain.ExerciseType `json:"type"`
	Reps        int                 `json:"reps"`
	WeightKg    float64             `json:"weightKg"`
	DurationSec int                 `json:"durationSec"`
	DistanceM   float64             `json:"distanceM"`
	StretchType string              `json:"stretchType"`
	Intensity   int                 `json:"intensity"`
}

type WorkoutService interface {
	CreateSession(ctx context.Context, p domain.Principal, in SessionInput) (*domain.WorkoutSession, error)
	GetSession(ctx context.Context, p domain.Principal, id string) (*domain.WorkoutSession, error)
	GetSessionIncludingDeleted(ctx context.Context, p domain.Principal, id string) (*domain.WorkoutSession, error)
	ListSessions(ctx context.Context, p domain.Principal, page, size int, withDeleted bool) ([]domain.WorkoutSession, int64, error)
	UpdateSession(ctx context.Context, p domain.Principal, id string, in SessionInput) (*domain.WorkoutSession, error)
	PerformAction(ctx context.Context, p domain.Principal, id string, action string) (*domain.WorkoutSession, error)
	DeleteSession(ctx context.Context, p domain.Principal, id string) error
	RestoreSession(ctx context.Context, p domain.Principal, id string) error

	AddExercise(ctx context.Context, p domain.Principal, sessionID string, in AddExerciseInput) (*domain.WorkoutExercise, error)
	RemoveExercise(ctx context.Context, p domain.Principal, sessionID, workoutExerciseID string) error
	AddSet(ctx context.Context, p domain.Principal, sessionID, workoutExerciseID string, in AddSetInput) (any, error)
	RemoveSet(ctx context.Context, p domain.Principal, sessionID, workoutExerciseID, setID string) error
}

type workoutService struct {
	workouts  *repo.WorkoutRepo
	exercises *repo.ExerciseRepo
	users     *repo.UserRepo
	now       func() time.Time
}

func NewWorkoutService(workouts *repo.WorkoutRepo, exercises *repo.ExerciseRepo, users *repo.UserRepo) WorkoutService {
	return &workoutService{workouts: workouts, exercises: exercises, users: users, now: time.Now}
}

func (s *workoutService) CreateSession(ctx context.Context, p domain.Principal, in SessionInput) (*domain.WorkoutSession, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "name", Message: "must not be empty"},
		}}
	}
	if _, err := s.users.FindByID(ctx, p.UserID); err != nil {
		return nil, err
	}
	w := &domain.WorkoutSession{
		ID:          utils.NewID(),
		UserID:      p.UserID,
		Name:        strings.TrimSpace(in.Name),
		Notes:       in.Notes,
		Status:      domain.StatusPlanned,
		StartedAt:   in.StartedAt,
		CompletedAt: in.CompletedAt,
		Versioned:   domain.Versioned{Version: 1},
	}
	if verr := w.ValidateTimestamps(s.now()); verr != nil {
		return nil, verr
	}
	w.Stamp(p.UserID, true)
	if err := s.workouts.CreateSession(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// ownedSession 归属检查：非管理员看不到他人会话，统一报 not found 不暴露存在性
func (s *workoutService) ownedSession(ctx context.Context, p domain.Principal, id string, withDeleted bool) (*domain.WorkoutSession, error) {
	var (
		w   *domain.WorkoutSession
		err error
	)
	if withDeleted {
		w, err = s.workouts.FindSessionByIDIncludingDeleted(ctx, id)
	} else {
		w, err = s.workouts.FindSessionByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && w.UserID != p.UserID {
		return nil, domain.ErrNotFound
	}
	return w, nil
}

func (s *workoutService) GetSession(ctx context.Context, p domain.Principal, id string) (*domain.WorkoutSession, error) {
	return s.ownedSession(ctx, p, id, false)
}

func (s *workoutService) GetSessionIncludingDeleted(ctx context.Context, p domain.Principal, id string) (*domain.WorkoutSession, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.workouts.FindSessionByIDIncludingDeleted(ctx, id)
}

func (s *workoutService) ListSessions(ctx context.Context, p domain.Principal, page, size int, withDeleted bool) ([]domain.WorkoutSession, int64, error) {
	if withDeleted && !p.IsAdmin() {
		return nil, 0, domain.ErrForbidden
	}
	if p.IsAdmin() {
		return s.workouts.ListSessions(ctx, (page-1)*size, size, withDeleted)
	}
	return s.workouts.ListSessionsByUser(ctx, p.UserID, (page-1)*size, size, false)
}

func (s *workoutService) UpdateSession(ctx context.Context, p domain.Principal, id string, in SessionInput) (*domain.WorkoutSession, error) {
	w, err := s.ownedSession(ctx, p, id, false)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "name", Message: "must not be empty"},
		}}
	}
	w.Name = strings.TrimSpace(in.Name)
	w.Notes = in.Notes
	if in.StartedAt != nil {
		w.StartedAt = in.StartedAt
	}
	if in.CompletedAt != nil {
		w.CompletedAt = in.CompletedAt
	}
	if in.ClearStartedAt {
		w.StartedAt = nil
	}
	if in.ClearCompletedAt {
		w.CompletedAt = nil
	}
	if verr := w.ValidateTimestamps(s.now()); verr != nil {
		return nil, verr
	}
	w.Stamp(p.UserID, false)
	if err := s.workouts.UpdateSession(ctx, w, in.Version); err != nil {
		return nil, err
	}
	return w, nil
}

// PerformAction 状态机动作：start / pause / resume / complete
func (s *workoutService) PerformAction(ctx context.Context, p domain.Principal, id string, action string) (*domain.WorkoutSession, error) {
	w, err := s.ownedSession(ctx, p, id, false)
	if err != nil {
		return nil, err
	}
	if err := w.Apply(domain.WorkoutAction(action), s.now()); err != nil {
		return nil, err
	}
	w.Stamp(p.UserID, false)
	if err := s.workouts.UpdateSession(ctx, w, w.Version); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *workoutService) DeleteSession(ctx context.Context, p domain.Principal, id string) error {
	if _, err := s.ownedSession(ctx, p, id, true); err != nil {
		return err
	}
	return s.workouts.SoftDeleteSession(ctx, id)
}

func (s *workoutService) RestoreSession(ctx context.Context, p domain.Principal, id string) error {
	if _, err := s.ownedSession(ctx, p, id, true); err != nil {
		return err
	}
	return s.workouts.RestoreSession(ctx, id)
}

func (s *workoutService) AddExercise(ctx context.Context, p domain.Principal, sessionID string, in AddExerciseInput) (*domain.WorkoutExercise, error) {
	w, err := s.ownedSession(ctx, p, sessionID, false)
	if err != nil {
		return nil, err
	}
	if w.Status == domain.StatusCompleted {
		return nil, domain.NewBusinessRule("cannot modify a COMPLETED workout")
	}
	e, err := s.exercises.FindByID(ctx, in.ExerciseID)
	if err != nil {
		return nil, err
	}
	order := in.OrderInWorkout
	if order <= 0 {
		order, err = s.workouts.NextOrder(ctx, sessionID)
		if err != nil {
			return nil, err
		}
	}
	we := &domain.WorkoutExercise{
		ID:             utils.NewID(),
		SessionID:      sessionID,
		ExerciseID:     e.ID,
		OrderInWorkout: order,
		Notes:          in.Notes,
		Exercise:       e,
	}
	we.Stamp(p.UserID, true)
	if err := s.workouts.AddWorkoutExercise(ctx, we); err != nil {
		return nil, err
	}
	return we, nil
}

// ownedWorkoutExercise 校验子资源确实挂在该会话下；COMPLETED 会话的子资源不可改
func (s *workoutService) ownedWorkoutExercise(ctx context.Context, p domain.Principal, sessionID, workoutExerciseID string, withDeleted bool) (*domain.WorkoutExercise, error) {
	w, err := s.ownedSession(ctx, p, sessionID, false)
	if err != nil {
		return nil, err
	}
	if w.Status == domain.StatusCompleted {
		return nil, domain.NewBusinessRule("cannot modify a COMPLETED workout")
	}
	var we *domain.WorkoutExercise
	if withDeleted {
		we, err = s.workouts.FindWorkoutExerciseByIDIncludingDeleted(ctx, workoutExerciseID)
	} else {
		we, err = s.workouts.FindWorkoutExerciseByID(ctx, workoutExerciseID)
	}
	if err != nil {
		return nil, err
	}
	if we.SessionID != sessionID {
		return nil, domain.ErrNotFound
	}
	return we, nil
}

func (s *workoutService) RemoveExercise(ctx context.Context, p domain.Principal, sessionID, workoutExerciseID string) error {
	// 含已删查找，重复删除保持幂等
	if _, err := s.ownedWorkoutExercise(ctx, p, sessionID, workoutExerciseID, true); err != nil {
		return err
	}
	return s.workouts.SoftDeleteWorkoutExercise(ctx, workoutExerciseID)
}

// AddSet 组类型必须与动作类型一致；组号在动作内自增
func (s *workoutService) AddSet(ctx context.Context, p domain.Principal, sessionID, workoutExerciseID string, in AddSetInput) (any, error) {
	we, err := s.ownedWorkoutExercise(ctx, p, sessionID, workoutExerciseID, false)
	if err != nil {
		return nil, err
	}
	if we.Exercise == nil {
		return nil, domain.ErrNotFound
	}
	t := in.Type
	if t == "" {
		t = we.Exercise.Type
	}
	if !t.Valid() {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "type", Message: "must be one of STRENGTH, CARDIO, FLEXIBILITY"},
		}}
	}
	// 组类型与动作类型不一致直接拒绝，错误信息带上双方类型
	if err := domain.CheckSetType(we.Exercise.Type, t); err != nil {
		return nil, err
	}

	n, err := s.workouts.NextSetNumber(ctx, t, workoutExerciseID)
	if err != nil {
		return nil, err
	}

	switch t {
	case domain.ExerciseStrength:
		if in.Reps <= 0 {
			return nil, &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "reps", Message: "must be positive"},
			}}
		}
		set := &domain.StrengthSet{
			ID: utils.NewID(), WorkoutExerciseID: workoutExerciseID,
			SetNumber: n, Reps: in.Reps, WeightKg: in.WeightKg,
		}
		set.Stamp(p.UserID, true)
		return set, s.workouts.AddStrengthSet(ctx, set)
	case domain.ExerciseCardio:
		if in.DurationSec <= 0 {
			return nil, &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "durationSec", Message: "must be positive"},
			}}
		}
		set := &domain.CardioSet{
			ID: utils.NewID(), WorkoutExerciseID: workoutExerciseID,
			SetNumber: n, DurationSec: in.DurationSec, DistanceM: in.DistanceM,
		}
		set.Stamp(p.UserID, true)
		return set, s.workouts.AddCardioSet(ctx, set)
	default:
		if in.DurationSec <= 0 {
			return nil, &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "durationSec", Message: "must be positive"},
			}}
		}
		if in.Intensity < 1 || in.Intensity > 10 {
			return nil, &domain.ValidationError{Fields: []domain.FieldError{
				{Field: "intensity", Message: "must be between 1 and 10"},
			}}
		}
		set := &domain.FlexibilitySet{
			ID: utils.NewID(), WorkoutExerciseID: workoutExerciseID,
			SetNumber: n, DurationSec: in.DurationSec,
			StretchType: in.StretchType, Intensity: in.Intensity,
		}
		set.Stamp(p.UserID, true)
		return set, s.workouts.AddFlexibilitySet(ctx, set)
	}
}

func (s *workoutService) RemoveSet(ctx context.Context, p domain.Principal, sessionID, workoutExerciseID, setID string) error {
	we, err := s.ownedWorkoutExercise(ctx, p, sessionID, workoutExerciseID, false)
	if err != nil {
		return err
	}
	if we.Exercise == nil {
		return domain.ErrNotFound
	}
	return s.workouts.SoftDeleteSet(ctx, we.Exercise.Type, workoutExerciseID, setID)
}
