package handler

import (
	"github.com/gin-gonic/gin"

	"go-workout-tracker/internal/service"
	"go-workout-tracker/internal/transport/http/middleware"
)

// AdminHandler 后台端：可见软删数据、封禁 / 恢复
type AdminHandler struct {
	users    service.UserService
	workouts service.WorkoutService
}

func NewAdminHandler(users service.UserService, workouts service.WorkoutService) *AdminHandler {
	return &AdminHandler{users: users, workouts: workouts}
}

type adminUserRow struct {
	userOut
	Active bool `json:"active"`
}

// ListUsers GET /admin/v1/users?with_deleted=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		Unauthorized(c, "unauthorized")
		return
	}
	page, size := Page(c)
	withDeleted := c.Query("with_deleted") == "true"
	us, total, err := h.users.List(c.Request.Context(), p, page, size, withDeleted)
	if err != nil {
		Fail(c, err)
		return
	}
	out := make([]adminUserRow, 0, len(us))
	for i := range us {
		out = append(out, adminUserRow{userOut: toUserOut(&us[i]), Active: us[i].IsActive()})
	}
	List(c, out, total, page, size)
}

// GetUser GET /admin/v1/users/:id（含软删）
func (h *AdminHandler) GetUser(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		Unauthorized(c, "unauthorized")
		return
	}
	u, err := h.users.GetIncludingDeleted(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, adminUserRow{userOut: toUserOut(u), Active: u.IsActive()})
}

// BanUser POST /admin/v1/users/:id/ban（软删）
func (h *AdminHandler) BanUser(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		Unauthorized(c, "unauthorized")
		return
	}
	if err := h.users.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"id": c.Param("id")})
}

// RestoreUser POST /admin/v1/users/:id/restore
func (h *AdminHandler) RestoreUser(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		Unauthorized(c, "unauthorized")
		return
	}
	if err := h.users.Restore(c.Request.Context(), p, c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"id": c.Param("id")})
}

// ListSessions GET /admin/v1/workout-sessions?with_deleted=
func (h *AdminHandler) ListSessions(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		Unauthorized(c, "unauthorized")
		return
	}
	page, size := Page(c)
	withDeleted := c.Query("with_deleted") == "true"
	ws, total, err := h.workouts.ListSessions(c.Request.Context(), p, page, size, withDeleted)
	if err != nil {
		Fail(c, err)
		return
	}
	List(c, ws, total, page, size)
}
