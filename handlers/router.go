package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"churchcms/middleware"
	"churchcms/models"
	"churchcms/services"
	"churchcms/store"
)

// Deps are the collaborators of the HTTP API.
type Deps struct {
	Log      *logrus.Logger
	Store    store.Store
	Services *services.Set
	Redis    *redis.Client      // optional, health reporting only
	Metrics  *middleware.Metrics // optional

	CORSOrigins []string
	// RateLimitPerMinute limits public submissions (login, contact, prayer
	// requests) per client. Zero disables the limit.
	RateLimitPerMinute int
	SecureCookies      bool
}

// Handler serves the API routes.
type Handler struct {
	log           *logrus.Logger
	store         store.Store
	services      *services.Set
	redis         *redis.Client
	secureCookies bool
}

// NewRouter builds the gin engine with middleware and every route.
func NewRouter(d Deps) *gin.Engine {
	h := &Handler{
		log:           d.Log,
		store:         d.Store,
		services:      d.Services,
		redis:         d.Redis,
		secureCookies: d.SecureCookies,
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Log))
	r.Use(gin.Recovery())
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(middleware.Session(d.Services.Auth))

	var limited []gin.HandlerFunc
	if d.RateLimitPerMinute > 0 {
		limited = append(limited, middleware.NewRateLimiter(d.RateLimitPerMinute, d.RateLimitPerMinute).Middleware())
	}

	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/login", append(limited, h.Login)...)
		auth.POST("/logout", h.Logout)
		auth.GET("/session", h.Session)

		h.mountConfig(api)

		sermons := api.Group("/sermons")
		sermons.GET("/latest", h.LatestSermons)
		sermons.POST("/end-live", h.EndLiveSermon)
		mountResource[models.Sermon](h, sermons, h.services.Sermons)

		mountResource[models.Event](h, api.Group("/events"), h.services.Events)

		ministries := api.Group("/ministries")
		ministries.GET("/slug/:slug", h.MinistryBySlug)
		mountResource[models.Ministry](h, ministries, h.services.Ministries)

		mountResource[models.PrayerRequest](h, api.Group("/prayer-requests"), h.services.Prayers, limited...)
		mountResource[models.Contact](h, api.Group("/contacts"), h.services.Contacts, limited...)

		pages := api.Group("/pages")
		pages.GET("/slug/:slug", h.PageBySlug)
		mountResource[models.Page](h, pages, h.services.Pages)

		mountResource[models.Pastor](h, api.Group("/pastors"), h.services.Pastors)
		mountResource[models.User](h, api.Group("/users"), h.services.Users)

		api.POST("/uploads", h.UploadImage)

		admin := api.Group("/admin")
		admin.GET("/stats", h.DashboardStats)
		mountResource[models.User](h, admin.Group("/users"), h.services.Users)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found", "code": "NOT_FOUND"})
	})
	return r
}
