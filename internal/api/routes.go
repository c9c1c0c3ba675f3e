package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, h *Handlers) {
	api := router.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/dashboard", h.Dashboard)
		api.GET("/cache/stats", h.CacheStats)
		api.GET("/imports", h.ListImports)

		deadlines := api.Group("/deadlines")
		{
			deadlines.GET("", h.ListDeadlines)
			deadlines.POST("", h.CreateDeadline)
			deadlines.POST("/import", h.ImportDeadlines)
			deadlines.GET("/:id", h.GetDeadline)
			deadlines.PUT("/:id", h.UpdateDeadline)
			deadlines.PATCH("/:id/workflow", h.UpdateWorkflow)
			deadlines.POST("/:id/archive", h.ArchiveDeadline)
			deadlines.POST("/:id/unarchive", h.UnarchiveDeadline)
			deadlines.DELETE("/:id", h.DeleteDeadline)
		}

		audiences := api.Group("/audiences")
		{
			audiences.GET("", h.ListAudiences)
			audiences.POST("", h.CreateAudience)
			audiences.POST("/import", h.ImportAudiences)
			audiences.PUT("/:id", h.UpdateAudience)
			audiences.PATCH("/:id/status", h.SetAudienceStatus)
			audiences.DELETE("/:id", h.DeleteAudience)
		}

		administrative := api.Group("/administrative")
		{
			administrative.GET("", h.ListAdministrative)
			administrative.POST("", h.CreateAdministrative)
			administrative.POST("/import", h.ImportAdministrative)
			administrative.PUT("/:id", h.UpdateAdministrative)
			administrative.POST("/:id/archive", h.ArchiveAdministrative)
			administrative.POST("/:id/unarchive", h.UnarchiveAdministrative)
			administrative.DELETE("/:id", h.DeleteAdministrative)
		}

		assist := api.Group("/assistant")
		{
			assist.POST("/chat", h.Chat)
			assist.POST("/summary", h.Summary)
			assist.POST("/draft", h.Draft)
			assist.POST("/jurisprudence", h.Jurisprudence)
		}
	}
}
