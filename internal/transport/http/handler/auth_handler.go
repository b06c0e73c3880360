package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"go-workout-tracker/internal/core/auth"
	"go-workout-tracker/internal/domain"
	"go-workout-tracker/internal/service"
	"go-workout-tracker/internal/transport/http/middleware"
)

type AuthHandler struct {
	users service.UserService
	jwter *auth.JWTer
}

func NewAuthHandler(users service.UserService, jwter *auth.JWTer) *AuthHandler {
	return &AuthHandler{users: users, jwter: jwter}
}

type userOut struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	Version  int64       `json:"version"`
}

func toUserOut(u *domain.User) userOut {
	return userOut{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, Version: u.Version}
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, err.Error())
		return
	}
	u, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		Fail(c, err)
		return
	}
	tok, err := h.jwter.Issue(u.ID, string(u.Role))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"token": tok, "user": toUserOut(u)})
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, err.Error())
		return
	}
	u, err := h.users.Authenticate(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		// 不区分用户不存在和密码错误
		if errors.Is(err, domain.ErrNotFound) {
			Unauthorized(c, "invalid credentials")
			return
		}
		Fail(c, err)
		return
	}
	tok, err := h.jwter.Issue(u.ID, string(u.Role))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"token": tok, "user": toUserOut(u)})
}

// Me GET /me
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		Unauthorized(c, "unauthorized")
		return
	}
	u, err := h.users.Get(c.Request.Context(), p, p.UserID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, toUserOut(u))
}
