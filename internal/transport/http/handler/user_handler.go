package handler

import (
	"github.com/gin-gonic/gin"

	"go-workout-tracker/internal/service"
	"go-workout-tracker/internal/transport/http/middleware"
)

type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Get GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		Unauthorized(c, "unauthorized")
		return
	}
	u, err := h.users.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, toUserOut(u))
}

// List GET /users（管理员）
func (h *UserHandler) List(c *gin.Context) {
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
	out := make([]userOut, 0, len(us))
	for i := range us {
		out = append(out, toUserOut(&us[i]))
	}
	List(c, out, total, page, size)
}

// Update PUT /users/:id（携带读取时的 version）
func (h *UserHandler) Update(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		Unauthorized(c, "unauthorized")
		return
	}
	var in service.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, err.Error())
		return
	}
	u, err := h.users.Update(c.Request.Context(), p, c.Param("id"), in)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, toUserOut(u))
}

// Delete DELETE /users/:id（软删）
func (h *UserHandler) Delete(c *gin.Context) {
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

// Restore POST /users/:id/restore
func (h *UserHandler) Restore(c *gin.Context) {
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
