package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ganttplan/ganttplan-backend/config"
	httpapi "github.com/ganttplan/ganttplan-backend/internal/api/http"
	"github.com/ganttplan/ganttplan-backend/internal/api/http/middleware"
	"github.com/ganttplan/ganttplan-backend/internal/auth"
	authhttp "github.com/ganttplan/ganttplan-backend/internal/auth/http"
	authmw "github.com/ganttplan/ganttplan-backend/internal/auth/middleware"
	authsvc "github.com/ganttplan/ganttplan-backend/internal/auth/service"
	epichttp "github.com/ganttplan/ganttplan-backend/internal/epics/http"
	epicrepo "github.com/ganttplan/ganttplan-backend/internal/epics/repository"
	epicsvc "github.com/ganttplan/ganttplan-backend/internal/epics/service"
	holidayhttp "github.com/ganttplan/ganttplan-backend/internal/holidays/http"
	holidaysvc "github.com/ganttplan/ganttplan-backend/internal/holidays/service"
	projecthttp "github.com/ganttplan/ganttplan-backend/internal/projects/http"
	projectrepo "github.com/ganttplan/ganttplan-backend/internal/projects/repository"
	projectsvc "github.com/ganttplan/ganttplan-backend/internal/projects/service"
	taskhttp "github.com/ganttplan/ganttplan-backend/internal/tasks/http"
	taskrepo "github.com/ganttplan/ganttplan-backend/internal/tasks/repository"
	tasksvc "github.com/ganttplan/ganttplan-backend/internal/tasks/service"
	userdomain "github.com/ganttplan/ganttplan-backend/internal/users/domain"
	userhttp "github.com/ganttplan/ganttplan-backend/internal/users/http"
	userrepo "github.com/ganttplan/ganttplan-backend/internal/users/repository"
	usersvc "github.com/ganttplan/ganttplan-backend/internal/users/service"
)

type RouterDeps struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *pgxpool.Pool
	SQL      *sql.DB
	Redis    *redis.Client
	Holidays *holidaysvc.HolidayService
	// Firebase is required when AUTH_PROVIDER=firebase.
	Firebase auth.IDTokenVerifier
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	cfg := dep.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(cfg.App.ServiceName, cfg.App.Version, healthChecks(dep)...)
	healthHandler.RegisterRoutes(r)

	userRepo := userrepo.NewUserRepository(dep.SQL)
	users := usersvc.NewUserService(userRepo)
	tasksRepo := taskrepo.NewTaskRepository(dep.DB)

	jwtm := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := authsvc.NewAuthService(userRepo, jwtm)

	var verifier authmw.TokenVerifier = jwtm
	if cfg.Auth.Provider == "firebase" {
		if dep.Firebase == nil {
			return nil, fmt.Errorf("firebase auth selected but no firebase client configured")
		}
		verifier = auth.NewFirebaseVerifier(dep.Firebase, authService)
	}
	authenticate := authmw.Authenticate(verifier)
	loginLimiter := authmw.NewIPRateLimiter(cfg.Auth.LoginRatePerMinute, cfg.Auth.LoginBurst)

	authhttp.New(authService).Register(r.Group("/api/auth"), authenticate, loginLimiter.Middleware())

	api := r.Group("", authenticate)

	holidayhttp.New(dep.Holidays).Register(api.Group("/holidays"), authmw.RequireRole(userdomain.RoleAdmin))

	taskhttp.New(tasksvc.NewTaskService(tasksRepo, dep.Holidays, users)).Register(api.Group("/tasks"))

	epichttp.New(epicsvc.NewEpicService(epicrepo.NewEpicRepository(dep.DB), tasksRepo, users)).
		Register(api.Group("/epics"))

	projecthttp.New(projectsvc.NewProjectService(projectrepo.NewProjectRepository(dep.DB), dep.Holidays)).
		Register(api.Group("/projects"))

	userhttp.New(users).Register(api.Group("/users"))

	return r, nil
}

func healthChecks(dep RouterDeps) []httpapi.Check {
	checks := []httpapi.Check{{Name: "db"}, {Name: "redis"}}
	if dep.DB != nil {
		checks[0].Ping = dep.DB.Ping
	}
	if dep.Redis != nil {
		checks[1].Ping = func(ctx context.Context) error { return dep.Redis.Ping(ctx).Err() }
	}
	return checks
}
