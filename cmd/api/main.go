package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "creditbureau-backend/internal/adapter/http"
	mw "creditbureau-backend/internal/adapter/middleware"
	repo "creditbureau-backend/internal/adapter/repository/mysql"
	"creditbureau-backend/internal/config"
	"creditbureau-backend/internal/infrastructure/cache"
	"creditbureau-backend/internal/infrastructure/db"
	"creditbureau-backend/internal/infrastructure/metrics"
	"creditbureau-backend/internal/infrastructure/token"
	ucAuth "creditbureau-backend/internal/usecase/auth"
	ucCredit "creditbureau-backend/internal/usecase/credit"
	ucUser "creditbureau-backend/internal/usecase/user"
)

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

func main() {
	cfg := config.Load()
	log := newLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("config")
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), cfg.LogLevel, log)
	if err != nil {
		log.WithError(err).Fatal("db")
	}
	if err := db.Migrate(gdb); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		log.WithError(err).Fatal("db")
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("redis")
	}
	defer rdb.Close()

	jwtm := token.NewJWTManager(cfg.JWTIssuer, cfg.JWTSecret, cfg.JWTTTL())
	m := metrics.New()

	users := repo.NewUserRepository(gdb)
	credits := repo.NewCreditRepository(gdb)
	creditUC := ucCredit.NewUsecase(credits, users, repo.NewGormUoW(gdb), log).
		WithScoreCache(cache.NewScoreCache(rdb, cfg.ScoreCacheTTL())).
		WithObserver(m)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		middleware.Recover(),
		mw.RequestLogger(log),
		m.Middleware(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowCredentials: true,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{
				echo.HeaderContentType, echo.HeaderAuthorization, mw.HeaderAuthToken,
				mw.HeaderRequestID, mw.HeaderRequestAt,
			},
		}),
		mw.Authenticate(jwtm, log),
	)

	health := httpadp.NewHandler(
		httpadp.HealthCheck{Name: "database", Probe: sqlDB.PingContext},
		httpadp.HealthCheck{Name: "redis", Probe: cache.Ping(rdb)},
	)
	httpadp.RegisterRoutes(e, httpadp.Routes{
		Health:      health,
		Auth:        httpadp.NewAuthHandler(ucAuth.NewUsecase(users, jwtm, cfg.BcryptCost, log), log),
		Users:       httpadp.NewUserHandler(ucUser.NewUsecase(users, log), log),
		Credit:      httpadp.NewCreditHandler(creditUC, log),
		Idempotency: mw.Idempotency(rdb, cfg.IdempTTL(), log),
		Metrics:     m.Handler(),
		Log:         log,
	})

	addr := ":" + cfg.AppPort
	go func() {
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
