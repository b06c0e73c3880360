package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-workout-tracker/internal/core/auth"
	"go-workout-tracker/internal/core/server"
	"go-workout-tracker/internal/domain"
	"go-workout-tracker/internal/transport/http/handler"
	mdw "go-workout-tracker/internal/transport/http/middleware"
)

// NewAdminEngine 后台端引擎：统一要求 ADMIN 角色
func NewAdminEngine(l *zap.Logger, admin *handler.AdminHandler, jwter *auth.JWTer) *gin.Engine {
	r := server.NewBase(l)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.MaxBodyBytes(16<<20),
		mdw.Metrics(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	g := r.Group("/admin/v1")
	g.Use(mdw.AuthJWT(jwter, domain.RoleAdmin))

	g.GET("/users", admin.ListUsers)
	g.GET("/users/:id", admin.GetUser)
	g.POST("/users/:id/ban", admin.BanUser)
	g.POST("/users/:id/restore", admin.RestoreUser)
	g.GET("/workout-sessions", admin.ListSessions)

	return r
}
