package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/fullstock/internal/api/handlers"
	"github.com/andresuchdata/fullstock/internal/api/middleware"
	"github.com/andresuchdata/fullstock/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	ReportService *service.ReportService
}

// RouterOptions tunes the HTTP shell.
type RouterOptions struct {
	AllowedOrigins []string
	MaxUploadMB    int64
}

func NewRouter(services *Services, opts RouterOptions) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	if opts.MaxUploadMB > 0 {
		router.MaxMultipartMemory = opts.MaxUploadMB << 20
		router.Use(middleware.LimitBody(opts.MaxUploadMB << 20))
	}

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(opts.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if services != nil && services.ReportService != nil {
		reportHandler := handlers.NewReportHandler(services.ReportService)

		companyGroup := apiGroup.Group("/companies")
		{
			companyGroup.GET("", reportHandler.GetCompanies)
			companyGroup.POST("/:company/process", reportHandler.ProcessCompany)
			companyGroup.GET("/:company/records", reportHandler.GetRecords)
			companyGroup.GET("/:company/summary", reportHandler.GetCompanySummary)
			companyGroup.DELETE("/:company", reportHandler.DeleteCompany)
		}

		apiGroup.DELETE("/session", reportHandler.ResetSession)

		consolidatedGroup := apiGroup.Group("/consolidated")
		{
			consolidatedGroup.GET("", reportHandler.GetConsolidated)
			consolidatedGroup.GET("/summary", reportHandler.GetConsolidatedSummary)
		}
		apiGroup.GET("/replenishment", reportHandler.GetReplenishment)

		apiGroup.GET("/export", reportHandler.DownloadExport)
		apiGroup.POST("/export/upload", reportHandler.UploadExport)
		apiGroup.GET("/exports", reportHandler.ListExports)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
