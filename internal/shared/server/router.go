package server

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-review/internal/analyses"
	"resume-review/internal/checkout"
	"resume-review/internal/pages"
	"resume-review/internal/shared/config"
	"resume-review/internal/shared/metrics"
	"resume-review/internal/shared/server/middleware"
	"resume-review/internal/shared/server/respond"
)

// RouterDeps carries the handlers and assets the router mounts.
type RouterDeps struct {
	Config          config.Config
	Templates       *template.Template
	Static          http.FileSystem
	PageHandler     *pages.Handler
	AnalysisHandler *analyses.Handler
	CheckoutHandler *checkout.Handler
	RateLimiter     *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = deps.Config.MaxUploadBytes

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
	)

	// Runs inside the groups so page routes are already marked for HTML errors.
	limit := middleware.RateLimit(middleware.RateLimitConfig{
		GroupFor: analyzeGroup,
		Limiter:  deps.RateLimiter,
		Rules: map[string]middleware.RateLimitRule{
			middleware.AnalyzeGroup: middleware.PerMinute(deps.Config.AnalyzeRatePerMinute, deps.Config.AnalyzeRateBurst),
		},
	})

	if deps.Templates != nil {
		r.SetHTMLTemplate(deps.Templates)
	}
	if deps.Static != nil {
		r.StaticFS("/static", deps.Static)
	}
	r.GET("/metrics", metrics.Handler())

	site := r.Group("/", respond.HTMLPages(), limit)
	if deps.PageHandler != nil {
		deps.PageHandler.RegisterRoutes(site)
	}
	if deps.CheckoutHandler != nil {
		deps.CheckoutHandler.RegisterRoutes(site)
	}
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterPageRoutes(site)
	}

	api := r.Group("/api/v1", middleware.CORS(deps.Config.CORSAllowOrigin), limit)
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, gin.H{"ok": true})
	})
	if deps.AnalysisHandler != nil {
		deps.AnalysisHandler.RegisterRoutes(api)
	}

	r.NoRoute(func(c *gin.Context) {
		if deps.Templates != nil && !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			respond.MarkHTML(c)
		}
		respond.Error(c, http.StatusNotFound, "not_found", "Diese Seite existiert nicht.", nil)
	})

	return r
}

func analyzeGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	switch c.FullPath() {
	case "/analyze", "/api/v1/analyses":
		return middleware.AnalyzeGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
