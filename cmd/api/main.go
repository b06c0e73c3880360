package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"go-workout-tracker/internal/core/auth"
	"go-workout-tracker/internal/core/cache"
	"go-workout-tracker/internal/core/config"
	"go-workout-tracker/internal/core/database"
	"go-workout-tracker/internal/core/logger"
	"go-workout-tracker/internal/core/server"
	"go-workout-tracker/internal/domain"
	"go-workout-tracker/internal/repo"
	"go-workout-tracker/internal/service"
	"go-workout-tracker/internal/transport/http/handler"
	"go-workout-tracker/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undo()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.User{},
			&domain.Exercise{},
			&domain.WorkoutSession{},
			&domain.WorkoutExercise{},
			&domain.StrengthSet{},
			&domain.CardioSet{},
			&domain.FlexibilitySet{},
		); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// Redis（可选：没配地址就不启用缓存 / 分客户端限流）
	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// 依赖装配
	userRepo := repo.NewUserRepo(db)
	exerciseRepo := repo.NewExerciseRepo(db)
	workoutRepo := repo.NewWorkoutRepo(db)

	userSvc := service.NewUserService(userRepo, workoutRepo)
	exerciseSvc := service.NewExerciseService(exerciseRepo, c)
	workoutSvc := service.NewWorkoutService(workoutRepo, exerciseRepo, userRepo)

	r := router.NewAPIEngine(router.Deps{
		Log:     log,
		JWTer:   jwter,
		Cache:   c,
		Auth:    handler.NewAuthHandler(userSvc, jwter),
		User:    handler.NewUserHandler(userSvc),
		Ex:      handler.NewExerciseHandler(exerciseSvc),
		Workout: handler.NewWorkoutHandler(workoutSvc),
	}, cfg.RateLimit)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("workout api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("workout api start FAILED", zap.Error(err))
		}
	}()
	log.Info("workout api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("workout api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
