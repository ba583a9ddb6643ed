package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stylebox-hq/core/internal/middleware"
	"github.com/stylebox-hq/core/internal/modules/account"
	"github.com/stylebox-hq/core/internal/modules/assets"
	"github.com/stylebox-hq/core/internal/modules/gateway"
	"github.com/stylebox-hq/core/internal/modules/health"
	"github.com/stylebox-hq/core/internal/modules/stylebox/review"
	"github.com/stylebox-hq/core/internal/modules/stylebox/studio"
	"github.com/stylebox-hq/core/internal/modules/stylebox/submission"
	"github.com/stylebox-hq/core/internal/modules/stylebox/template"
	"github.com/stylebox-hq/core/internal/modules/tasks"
	pkgredis "github.com/stylebox-hq/core/internal/pkg/redis"
	"github.com/stylebox-hq/core/internal/pkg/response"
	"github.com/stylebox-hq/core/internal/pkg/taskqueue"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)
	adminMW := middleware.RequireAdmin()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "stylebox-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/stylebox-hq/core",
		"issues":   "https://github.com/stylebox-hq/core/issues",
	}

	apiPrefix := "/api/v1"

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.RateLimit(rc.Raw()))
	r.Use(middleware.Idempotence(rc.Raw()))

	a.taskSvc = taskqueue.NewService(rc)

	// Versioned API
	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth(db))
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL:                    15 * time.Second,
		EnableCDNHeader:        true,
		EnableForceCacheHeader: false,
		Disable:                a.cfg.IsDev(),
		SkipPaths:              httpCacheSkipPaths(apiPrefix),
	}))

	// Infrastructure
	health.RegisterRoutes(api, db, rc, a.sched, authMW, adminMW)

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(a.cfgStartTime()).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	api.GET("/clean_cache", authMW, adminMW, func(c *gin.Context) {
		deleted, err := middleware.PurgeHTTPCache(c.Request.Context(), rc.Raw())
		if err != nil {
			response.InternalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
	})

	// Accounts & sessions
	account.NewHandler(account.NewService(db)).RegisterRoutes(api, authMW, adminMW)

	// Templates, studio sessions, submissions, reviews
	a.tplSvc = template.NewService(db, a.hub, a.logger)
	template.NewHandler(a.tplSvc).RegisterRoutes(api, authMW, adminMW)

	autosave := time.Duration(a.cfg.Studio.AutosaveSeconds) * time.Second
	a.studioMgr = studio.NewManager(a.tplSvc, autosave, a.logger)
	studio.NewHandler(a.studioMgr, a.tplSvc).RegisterRoutes(api, authMW, adminMW)

	subSvc := submission.NewService(db, a.hub, a.logger)
	submission.NewHandler(subSvc, a.tplSvc).RegisterRoutes(api, authMW)

	reviewSvc := review.NewService(db, a.hub, a.logger)
	review.NewHandler(reviewSvc).RegisterRoutes(api, authMW, adminMW)

	// Asset uploads
	var uploader *assets.Uploader
	if s3cfg := a.s3Config(); s3cfg.Enabled() {
		uploader = assets.NewUploader(s3cfg)
	}
	assets.NewHandler(uploader, a.taskSvc, a.logger).RegisterRoutes(api, authMW)

	// Scheduler and background task administration
	tasks.NewHandler(a.sched, a.taskSvc).RegisterRoutes(api, authMW, adminMW)

	// WebSocket gateway
	gateway.RegisterRoutes(r.Group(""), a.hub)
}

func (a *App) s3Config() assets.S3Config {
	st := a.cfg.Storage
	return assets.S3Config{
		Endpoint:        st.Endpoint,
		Region:          st.Region,
		Bucket:          st.Bucket,
		AccessKeyID:     st.AccessKeyID,
		SecretAccessKey: st.SecretAccessKey,
		CustomDomain:    st.CustomDomain,
		PathStyle:       st.PathStyle,
	}
}

func httpCacheSkipPaths(apiPrefix string) []string {
	p := strings.TrimSuffix(strings.TrimSpace(apiPrefix), "/")
	if p == "" {
		p = "/api/v1"
	}
	return []string{
		p + "/uptime",
		p + "/health",
		p + "/clean_cache",
		p + "/auth",
		p + "/auth/*",
		p + "/studio/session",
		p + "/studio/session/*",
		p + "/submissions",
		p + "/submissions/*",
		p + "/reviews",
		p + "/reviews/*",
		p + "/assets/upload",
	}
}
