package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go-workout-tracker/internal/domain"
)

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "alice@example.com")

	_, err := f.users.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "other@example.com",
		Password: "s3cret-pass",
	})
	var ce *domain.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConflictError, got %v", err)
	}
	if ce.Field != "username" {
		t.Fatalf("conflict field = %q, want username", ce.Field)
	}
	if !strings.Contains(err.Error(), "username") {
		t.Fatalf("error should name the conflicting field: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "alice@example.com")

	_, err := f.users.Register(context.Background(), RegisterInput{
		Username: "alice2",
		Email:    "Alice@Example.com", // 邮箱大小写不敏感
		Password: "s3cret-pass",
	})
	var ce *domain.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("want ConflictError, got %v", err)
	}
	if ce.Field != "email" {
		t.Fatalf("conflict field = %q, want email", ce.Field)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Register(context.Background(), RegisterInput{
		Username: "",
		Email:    "not-an-email",
		Password: "short",
	})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	got := map[string]bool{}
	for _, fe := range verr.Fields {
		got[fe.Field] = true
	}
	for _, want := range []string{"username", "email", "password"} {
		if !got[want] {
			t.Errorf("missing field error for %q: %v", want, verr.Fields)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice", "alice@example.com")

	got, err := f.users.Authenticate(context.Background(), "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("authenticated wrong user: %s", got.ID)
	}

	if _, err := f.users.Authenticate(context.Background(), "alice", "wrong-pass"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("wrong password: want ErrNotFound, got %v", err)
	}
	if _, err := f.users.Authenticate(context.Background(), "nobody", "s3cret-pass"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown user: want ErrNotFound, got %v", err)
	}
}

func TestUpdateUserVersioning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "alice", "alice@example.com")
	p := asPrincipal(u)

	got, err := f.users.Update(ctx, p, u.ID, UpdateUserInput{
		Username: "alice-renamed",
		Email:    u.Email,
		Version:  u.Version,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Version != u.Version+1 {
		t.Fatalf("version = %d, want %d", got.Version, u.Version+1)
	}

	// 仍拿旧版本提交，必须冲突
	_, err = f.users.Update(ctx, p, u.ID, UpdateUserInput{
		Username: "alice-again",
		Email:    u.Email,
		Version:  u.Version,
	})
	if !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("stale update: want ErrVersionConflict, got %v", err)
	}
}

func TestUpdateUserRoleEscalationForbidden(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice", "alice@example.com")

	_, err := f.users.Update(context.Background(), asPrincipal(u), u.ID, UpdateUserInput{
		Username: u.Username,
		Email:    u.Email,
		Role:     domain.RoleAdmin,
		Version:  u.Version,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("self role escalation: want ErrForbidden, got %v", err)
	}
}

func TestGetOtherUserForbidden(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice", "alice@example.com")
	bob := f.register(t, "bob", "bob@example.com")

	if _, err := f.users.Get(context.Background(), asPrincipal(bob), alice.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if _, err := f.users.Get(context.Background(), admin, alice.ID); err != nil {
		t.Fatalf("admin read: %v", err)
	}
}

func TestDeleteUserWithSessionsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "alice", "alice@example.com")
	p := asPrincipal(u)

	if _, err := f.workouts.CreateSession(ctx, p, SessionInput{Name: "leg day"}); err != nil {
		t.Fatalf("create session: %v", err)
	}

	err := f.users.Delete(ctx, p, u.ID)
	var bre *domain.BusinessRuleError
	if !errors.As(err, &bre) {
		t.Fatalf("want BusinessRuleError, got %v", err)
	}
	if !strings.Contains(err.Error(), "workout") {
		t.Fatalf("error should mention workouts: %v", err)
	}
}

func TestDeleteRestoreUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "bob", "bob@example.com")
	p := asPrincipal(u)

	if err := f.users.Delete(ctx, p, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	// 普通查询看不到已删用户
	if _, err := f.users.Get(ctx, admin, u.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
	// 含已删查询可以看到，且标记为非活跃
	got, err := f.users.GetIncludingDeleted(ctx, admin, u.ID)
	if err != nil {
		t.Fatalf("get including deleted: %v", err)
	}
	if got.IsActive() {
		t.Fatal("deleted user should not be active")
	}
	// 重复删除幂等
	if err := f.users.Delete(ctx, admin, u.ID); err != nil {
		t.Fatalf("repeated delete should be idempotent: %v", err)
	}

	if err := f.users.Restore(ctx, p, u.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("restore by non-admin: want ErrForbidden, got %v", err)
	}
	if err := f.users.Restore(ctx, admin, u.ID); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got, err = f.users.Get(ctx, admin, u.ID)
	if err != nil {
		t.Fatalf("get after restore: %v", err)
	}
	if !got.IsActive() {
		t.Fatal("restored user should be active")
	}

	// 恢复未删除的实体报业务错误
	var bre *domain.BusinessRuleError
	if err := f.users.Restore(ctx, admin, u.ID); !errors.As(err, &bre) {
		t.Fatalf("restore of active user: want BusinessRuleError, got %v", err)
	}
}

func TestListUsersAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")
	bob := f.register(t, "bob", "bob@example.com")

	if _, _, err := f.users.List(ctx, asPrincipal(alice), 1, 20, false); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}

	if err := f.users.Delete(ctx, admin, bob.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	users, total, err := f.users.List(ctx, admin, 1, 20, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(users) != 1 {
		t.Fatalf("active list: got %d/%d, want 1/1", len(users), total)
	}
	_, total, err = f.users.List(ctx, admin, 1, 20, true)
	if err != nil {
		t.Fatalf("list with deleted: %v", err)
	}
	if total != 2 {
		t.Fatalf("with_deleted total = %d, want 2", total)
	}
}
