package service

import (
	"context"
	"strings"
	"time"

	"go-workout-tracker/internal/core/cache"
	"go-workout-tracker/internal/domain"
	"go-workout-tracker/internal/repo"
	"go-workout-tracker/pkg/utils"
)

const exerciseCacheTTL = 5 * time.Minute

type ExerciseInput struct {
	Name        string              `json:"name"`
	Type        domain.ExerciseType `json:"type"`
	MuscleGroup string              `json:"muscleGroup"`
	Difficulty  domain.Difficulty   `json:"difficulty"`
	Description string              `json:"description"`
	Version     int64               `json:"version"`
}

type ExerciseService interface {
	Create(ctx context.Context, p domain.Principal, in ExerciseInput) (*domain.Exercise, error)
	Get(ctx context.Context, id string) (*domain.Exercise, error)
	List(ctx context.Context, f domain.ExerciseFilter, page, size int) ([]domain.Exercise, int64, error)
	Update(ctx context.Context, p domain.Principal, id string, in ExerciseInput) (*domain.Exercise, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
	Restore(ctx context.Context, p domain.Principal, id string) error
}

type exerciseService struct {
	exercises *repo.ExerciseRepo
	cache     *cache.Cache // 可为 nil（未配置 Redis）
}

func NewExerciseService(exercises *repo.ExerciseRepo, c *cache.Cache) ExerciseService {
	return &exerciseService{exercises: exercises, cache: c}
}

func validateExercise(in ExerciseInput) *domain.ValidationError {
	var fields []domain.FieldError
	if strings.TrimSpace(in.Name) == "" {
		fields = append(fields, domain.FieldError{Field: "name", Message: "must not be empty"})
	}
	if !in.Type.Valid() {
		fields = append(fields, domain.FieldError{Field: "type", Message: "must be one of STRENGTH, CARDIO, FLEXIBILITY"})
	}
	if !in.Difficulty.Valid() {
		fields = append(fields, domain.FieldError{Field: "difficulty", Message: "must be one of BEGINNER, INTERMEDIATE, ADVANCED"})
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func (s *exerciseService) Create(ctx context.Context, p domain.Principal, in ExerciseInput) (*domain.Exercise, error) {
	if !p.CanManageCatalog() {
		return nil, domain.ErrForbidden
	}
	if verr := validateExercise(in); verr != nil {
		return nil, verr
	}
	e := &domain.Exercise{
		ID:          utils.NewID(),
		Name:        strings.TrimSpace(in.Name),
		Type:        in.Type,
		MuscleGroup: strings.TrimSpace(in.MuscleGroup),
		Difficulty:  in.Difficulty,
		Description: in.Description,
		Versioned:   domain.Versioned{Version: 1},
	}
	e.Stamp(p.UserID, true)
	if err := s.exercises.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func cacheKey(id string) string { return "exercise:" + id }

// Get 读多写少，走 Redis 读穿缓存（singleflight 合并回源）
func (s *exerciseService) Get(ctx context.Context, id string) (*domain.Exercise, error) {
	if s.cache == nil {
		return s.exercises.FindByID(ctx, id)
	}
	e, err := cache.GetOrLoadJSON[domain.Exercise](s.cache, ctx, cacheKey(id), exerciseCacheTTL,
		func(ctx context.Context) (*domain.Exercise, error) {
			return s.exercises.FindByID(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (s *exerciseService) List(ctx context.Context, f domain.ExerciseFilter, page, size int) ([]domain.Exercise, int64, error) {
	return s.exercises.List(ctx, f, (page-1)*size, size)
}

func (s *exerciseService) Update(ctx context.Context, p domain.Principal, id string, in ExerciseInput) (*domain.Exercise, error) {
	if !p.CanManageCatalog() {
		return nil, domain.ErrForbidden
	}
	if verr := validateExercise(in); verr != nil {
		return nil, verr
	}
	e, err := s.exercises.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Name = strings.TrimSpace(in.Name)
	e.Type = in.Type
	e.MuscleGroup = strings.TrimSpace(in.MuscleGroup)
	e.Difficulty = in.Difficulty
	e.Description = in.Description
	e.Stamp(p.UserID, false)
	if err := s.exercises.Update(ctx, e, in.Version); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return e, nil
}

func (s *exerciseService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if !p.CanManageCatalog() {
		return domain.ErrForbidden
	}
	if err := s.exercises.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *exerciseService) Restore(ctx context.Context, p domain.Principal, id string) error {
	if !p.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := s.exercises.Restore(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *exerciseService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, cacheKey(id))
	}
}
