package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"churchcms/config"
	"churchcms/handlers"
	"churchcms/middleware"
	"churchcms/services"
	"churchcms/siteconfig"
	"churchcms/store"
	"churchcms/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := config.NewLogger(cfg.Log)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Auth.JWTSecret == config.DevJWTSecret {
		log.Warn("JWT_SECRET not set, using the development secret")
	}

	ctx := context.Background()
	var closers []func(context.Context) error

	var st store.Store
	switch cfg.Database.Driver {
	case "memory":
		log.Warn("using the in-memory store, data is lost on restart")
		st = store.NewMemory()
	default:
		client, db, err := config.ConnectDB(ctx, cfg.Database, log)
		if err != nil {
			log.WithError(err).Fatal("database unavailable")
		}
		closers = append(closers, client.Disconnect)
		st = store.NewMongo(db)
	}

	rdb, err := config.InitRedis(ctx, cfg.Cache, log)
	if err != nil {
		log.WithError(err).Fatal("redis unavailable")
	}
	var cache siteconfig.Cache
	if rdb != nil {
		cache = siteconfig.NewRedisCache(rdb, cfg.Cache.TTL)
		closers = append(closers, func(context.Context) error { return rdb.Close() })
	}

	mc, err := config.InitMinIO(ctx, cfg.MinIO, log)
	if err != nil {
		log.WithError(err).Fatal("object storage unavailable")
	}
	opts := services.Options{
		JWTSecret:       cfg.Auth.JWTSecret,
		SessionTTL:      cfg.Auth.SessionTTL,
		Bucket:          cfg.MinIO.BucketName,
		UploadPublicURL: cfg.MinIO.PublicBaseURL(),
	}
	if mc != nil {
		opts.Objects = mc
	}

	set := services.New(st, cache, opts, log)
	if err := set.EnsureIndexes(ctx); err != nil {
		log.WithError(err).Fatal("creating indexes failed")
	}

	middleware.RegisterCustomValidators()

	router := handlers.NewRouter(handlers.Deps{
		Log:                log,
		Store:              st,
		Services:           set,
		Redis:              rdb,
		Metrics:            middleware.NewMetrics(),
		CORSOrigins:        cfg.Server.CORSOrigins,
		RateLimitPerMinute: cfg.Server.RateLimit,
		SecureCookies:      cfg.Auth.SecureCookies || cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := utils.ListenAndServe(srv)
	log.WithFields(logrus.Fields{"addr": srv.Addr, "env": cfg.Env, "store": cfg.Database.Driver}).Info("server started")

	shutdownCtx, cancel := context.WithCancel(ctx)
	go func() {
		if err := <-serveErr; err != nil {
			log.WithError(err).Error("server failed")
			cancel()
		}
	}()
	if err := utils.GracefulShutdown(shutdownCtx, srv, cfg.Server.ShutdownTTL, log, closers...); err != nil {
		cancel()
		os.Exit(1)
	}
	cancel()
}
