package service

import (
	"context"
	"errors"
	"strings"

	"go-workout-tracker/internal/domain"
	"go-workout-tracker/internal/repo"
	"go-workout-tracker/pkg/utils"
)

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateUserInput struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	Version  int64       `json:"version"`
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	Get(ctx context.Context, p domain.Principal, id string) (*domain.User, error)
	GetIncludingDeleted(ctx context.Context, p domain.Principal, id string) (*domain.User, error)
	List(ctx context.Context, p domain.Principal, page, size int, withDeleted bool) ([]domain.User, int64, error)
	Update(ctx context.Context, p domain.Principal, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
	Restore(ctx context.Context, p domain.Principal, id string) error
}

type userService struct {
	users    *repo.UserRepo
	workouts *repo.WorkoutRepo
}

func NewUserService(users *repo.UserRepo, workouts *repo.WorkoutRepo) UserService {
	return &userService{users: users, workouts: workouts}
}

func validateRegister(in RegisterInput) *domain.ValidationError {
	var fields []domain.FieldError
	if strings.TrimSpace(in.Username) == "" {
		fields = append(fields, domain.FieldError{Field: "username", Message: "must not be empty"})
	} else if len(in.Username) > 64 {
		fields = append(fields, domain.FieldError{Field: "username", Message: "must be at most 64 characters"})
	}
	if !strings.Contains(in.Email, "@") {
		fields = append(fields, domain.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if len(in.Password) < 8 {
		fields = append(fields, domain.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if verr := validateRegister(in); verr != nil {
		return nil, verr
	}
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	// 唯一性预检：插入前先查，给出指明字段的冲突错误
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, &domain.ConflictError{Field: "username", Value: username}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, &domain.ConflictError{Field: "email", Value: email}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Username:     username,
		Email:        email,
		PasswordHash: utils.HashPassword(in.Password),
		Role:         domain.RoleUser,
		Versioned:    domain.Versioned{Version: 1},
	}
	u.Stamp(u.ID, true)
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, p domain.Principal, id string) (*domain.User, error) {
	if !p.IsAdmin() && p.UserID != id {
		return nil, domain.ErrForbidden
	}
	return s.users.FindByID(ctx, id)
}

func (s *userService) GetIncludingDeleted(ctx context.Context, p domain.Principal, id string) (*domain.User, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.users.FindByIDIncludingDeleted(ctx, id)
}

func (s *userService) List(ctx context.Context, p domain.Principal, page, size int, withDeleted bool) ([]domain.User, int64, error) {
	if !p.IsAdmin() {
		return nil, 0, domain.ErrForbidden
	}
	return s.users.List(ctx, (page-1)*size, size, withDeleted)
}

func (s *userService) Update(ctx context.Context, p domain.Principal, id string, in UpdateUserInput) (*domain.User, error) {
	if !p.IsAdmin() && p.UserID != id {
		return nil, domain.ErrForbidden
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var fields []domain.FieldError
	if strings.TrimSpace(in.Username) == "" {
		fields = append(fields, domain.FieldError{Field: "username", Message: "must not be empty"})
	}
	if !strings.Contains(in.Email, "@") {
		fields = append(fields, domain.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if in.Role != "" && !in.Role.Valid() {
		fields = append(fields, domain.FieldError{Field: "role", Message: "must be one of USER, ADMIN, MODERATOR"})
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields}
	}

	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username != u.Username {
		if _, err := s.users.FindByUsername(ctx, username); err == nil {
			return nil, &domain.ConflictError{Field: "username", Value: username}
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	if email != u.Email {
		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			return nil, &domain.ConflictError{Field: "email", Value: email}
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	u.Username = username
	u.Email = email
	if in.Role != "" {
		// 角色变更仅管理员可做
		if in.Role != u.Role && !p.IsAdmin() {
			return nil, domain.ErrForbidden
		}
		u.Role = in.Role
	}
	u.Stamp(p.UserID, false)
	if err := s.users.Update(ctx, u, in.Version); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete 软删；用户名下仍有训练记录时拒绝
func (s *userService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if !p.IsAdmin() && p.UserID != id {
		return domain.ErrForbidden
	}
	n, err := s.workouts.CountActiveByUser(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.NewBusinessRule("cannot delete user with %d workout sessions", n)
	}
	return s.users.SoftDelete(ctx, id)
}

func (s *userService) Restore(ctx context.Context, p domain.Principal, id string) error {
	if !p.IsAdmin() {
		return domain.ErrForbidden
	}
	return s.users.Restore(ctx, id)
}
