package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-workout-tracker/internal/domain"
	"go-workout-tracker/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Exercise{},
		&domain.WorkoutSession{},
		&domain.WorkoutExercise{},
		&domain.StrengthSet{},
		&domain.CardioSet{},
		&domain.FlexibilitySet{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type fixture struct {
	users     UserService
	exercises ExerciseService
	workouts  WorkoutService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	userRepo := repo.NewUserRepo(db)
	exerciseRepo := repo.NewExerciseRepo(db)
	workoutRepo := repo.NewWorkoutRepo(db)
	return &fixture{
		users:     NewUserService(userRepo, workoutRepo),
		exercises: NewExerciseService(exerciseRepo, nil),
		workouts:  NewWorkoutService(workoutRepo, exerciseRepo, userRepo),
	}
}

func (f *fixture) register(t *testing.T, username, email string) *domain.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    email,
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}

func asPrincipal(u *domain.User) domain.Principal {
	return domain.Principal{UserID: u.ID, Role: u.Role}
}

var admin = domain.Principal{UserID: "admin-test", Role: domain.RoleAdmin}

func (f *fixture) seedExercise(t *testing.T, name string, typ domain.ExerciseType) *domain.Exercise {
	t.Helper()
	e, err := f.exercises.Create(context.Background(), admin, ExerciseInput{
		Name:        name,
		Type:        typ,
		MuscleGroup: "full body",
		Difficulty:  domain.DifficultyBeginner,
	})
	if err != nil {
		t.Fatalf("seed exercise %s: %v", name, err)
	}
	return e
}
