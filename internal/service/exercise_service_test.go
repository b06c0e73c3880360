package service

import (
	"context"
	"errors"
	"testing"

	"go-workout-tracker/internal/domain"
)

var moderator = domain.Principal{UserID: "mod-test", Role: domain.RoleModerator}

func (f *fixture) createExercise(t *testing.T, p domain.Principal, in ExerciseInput) *domain.Exercise {
	t.Helper()
	e, err := f.exercises.Create(context.Background(), p, in)
	if err != nil {
		t.Fatalf("create exercise %s: %v", in.Name, err)
	}
	return e
}

func TestCreateExerciseRequiresCatalogRole(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice", "alice@example.com")

	in := ExerciseInput{
		Name:        "Bench Press",
		Type:        domain.ExerciseStrength,
		MuscleGroup: "chest",
		Difficulty:  domain.DifficultyIntermediate,
	}
	if _, err := f.exercises.Create(context.Background(), asPrincipal(u), in); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("plain user: want ErrForbidden, got %v", err)
	}
	// 版主可维护动作库
	if _, err := f.exercises.Create(context.Background(), moderator, in); err != nil {
		t.Fatalf("moderator create: %v", err)
	}
}

func TestCreateExerciseValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.exercises.Create(context.Background(), admin, ExerciseInput{
		Name:       "  ",
		Type:       "YOGA",
		Difficulty: "IMPOSSIBLE",
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	got := map[string]bool{}
	for _, fe := range verr.Fields {
		got[fe.Field] = true
	}
	for _, want := range []string{"name", "type", "difficulty"} {
		if !got[want] {
			t.Errorf("missing field error for %q: %v", want, verr.Fields)
		}
	}
}

func TestListExercisesFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createExercise(t, admin, ExerciseInput{Name: "Bench Press", Type: domain.ExerciseStrength, MuscleGroup: "chest", Difficulty: domain.DifficultyIntermediate})
	f.createExercise(t, admin, ExerciseInput{Name: "Back Squat", Type: domain.ExerciseStrength, MuscleGroup: "legs", Difficulty: domain.DifficultyAdvanced})
	f.createExercise(t, admin, ExerciseInput{Name: "Treadmill Run", Type: domain.ExerciseCardio, MuscleGroup: "legs", Difficulty: domain.DifficultyBeginner})

	cases := []struct {
		name   string
		filter domain.ExerciseFilter
		want   int64
	}{
		{"all", domain.ExerciseFilter{}, 3},
		{"by type", domain.ExerciseFilter{Type: domain.ExerciseStrength}, 2},
		{"by muscle group", domain.ExerciseFilter{MuscleGroup: "legs"}, 2},
		{"by name substring", domain.ExerciseFilter{NameLike: "Squat"}, 1},
		{"combined", domain.ExerciseFilter{Type: domain.ExerciseStrength, MuscleGroup: "legs"}, 1},
		{"no match", domain.ExerciseFilter{Type: domain.ExerciseFlexibility}, 0},
	}
	for _, tc := range cases {
		items, total, err := f.exercises.List(ctx, tc.filter, 1, 20)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if total != tc.want || int64(len(items)) != tc.want {
			t.Errorf("%s: got %d/%d, want %d", tc.name, len(items), total, tc.want)
		}
	}
}

func TestUpdateExerciseVersioning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.createExercise(t, admin, ExerciseInput{Name: "Bench Press", Type: domain.ExerciseStrength, MuscleGroup: "chest", Difficulty: domain.DifficultyIntermediate})

	in := ExerciseInput{
		Name:        "Incline Bench Press",
		Type:        e.Type,
		MuscleGroup: e.MuscleGroup,
		Difficulty:  e.Difficulty,
		Version:     e.Version,
	}
	got, err := f.exercises.Update(ctx, admin, e.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Version != e.Version+1 {
		t.Fatalf("version = %d, want %d", got.Version, e.Version+1)
	}

	if _, err := f.exercises.Update(ctx, admin, e.ID, in); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("stale update: want ErrVersionConflict, got %v", err)
	}
}

func TestDeleteRestoreExercise(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.createExercise(t, admin, ExerciseInput{Name: "Bench Press", Type: domain.ExerciseStrength, MuscleGroup: "chest", Difficulty: domain.DifficultyIntermediate})

	if err := f.exercises.Delete(ctx, moderator, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.exercises.Get(ctx, e.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	if _, total, err := f.exercises.List(ctx, domain.ExerciseFilter{}, 1, 20); err != nil || total != 0 {
		t.Fatalf("deleted exercise still listed: total=%d err=%v", total, err)
	}

	// 恢复仅管理员可做
	if err := f.exercises.Restore(ctx, moderator, e.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("restore by moderator: want ErrForbidden, got %v", err)
	}
	if err := f.exercises.Restore(ctx, admin, e.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if _, err := f.exercises.Get(ctx, e.ID); err != nil {
		t.Fatalf("get after restore: %v", err)
	}

	var bre *domain.BusinessRuleError
	if err := f.exercises.Restore(ctx, admin, e.ID); !errors.As(err, &bre) {
		t.Fatalf("restore of active exercise: want BusinessRuleError, got %v", err)
	}
}
