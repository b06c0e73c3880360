package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	xrate "golang.org/x/time/rate"

	"go-workout-tracker/internal/core/auth"
	"go-workout-tracker/internal/core/cache"
	"go-workout-tracker/internal/core/config"
	"go-workout-tracker/internal/domain"
	"go-workout-tracker/internal/transport/http/handler"
	mdw "go-workout-tracker/internal/transport/http/middleware"
)

type Deps struct {
	Log     *zap.Logger
	JWTer   *auth.JWTer
	Cache   *cache.Cache // 可为 nil
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Ex      *handler.ExerciseHandler
	Workout *handler.WorkoutHandler
}

// NewAPIEngine 用户端引擎：/api/v1
func NewAPIEngine(d Deps, rl config.RateLimit) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(xrate.Limit(rl.RPS), rl.Burst),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Recovery(d.Log),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		cors.Default(),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// 公共
	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", d.Auth.Login)
	api.GET("/exercises", d.Ex.List)
	api.GET("/exercises/:id", d.Ex.Get)

	// 鉴权
	authed := api.Group("")
	authed.Use(
		mdw.AuthJWT(d.JWTer, ""),
		mdw.RateLimitPerClient(d.Cache, rl.PerClientLimit, time.Duration(rl.PerClientWindow)*time.Second),
	)

	authed.GET("/me", d.Auth.Me)

	authed.GET("/users/:id", d.User.Get)
	authed.PUT("/users/:id", d.User.Update)
	authed.DELETE("/users/:id", d.User.Delete)

	// 动作库维护：角色检查在 service 层（MODERATOR 也可写）
	authed.POST("/exercises", d.Ex.Create)
	authed.PUT("/exercises/:id", d.Ex.Update)
	authed.DELETE("/exercises/:id", d.Ex.Delete)
	authed.POST("/exercises/:id/restore", d.Ex.Restore)

	authed.GET("/workout-sessions", d.Workout.List)
	authed.POST("/workout-sessions", d.Workout.Create)
	authed.GET("/workout-sessions/:id", d.Workout.Get)
	authed.PUT("/workout-sessions/:id", d.Workout.Update)
	authed.DELETE("/workout-sessions/:id", d.Workout.Delete)
	authed.POST("/workout-sessions/:id/restore", d.Workout.Restore)
	authed.POST("/workout-sessions/:id/actions", d.Workout.Action)

	authed.POST("/workout-sessions/:id/exercises", d.Workout.AddExercise)
	authed.DELETE("/workout-sessions/:id/exercises/:weID", d.Workout.RemoveExercise)
	authed.POST("/workout-sessions/:id/exercises/:weID/sets", d.Workout.AddSet)
	authed.DELETE("/workout-sessions/:id/exercises/:weID/sets/:setID", d.Workout.RemoveSet)

	// 管理员专属的用户列表也暴露在用户端（便于前端管理页）
	adminOnly := api.Group("")
	adminOnly.Use(mdw.AuthJWT(d.JWTer, domain.RoleAdmin))
	adminOnly.GET("/users", d.User.List)
	adminOnly.POST("/users/:id/restore", d.User.Restore)

	return r
}
