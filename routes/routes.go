package routes

import (
	"net/http"
	"time"

	"pocketclass/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterClientRoutes registers the instructor's client roster endpoints.
func RegisterClientRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/clients")
	{
		api.Use(hb.InstructorAuth)

		api.GET("", hb.ListClientsHandler)
		api.GET("/stats", hb.ClientStatsHandler)
		api.GET("/stream", hb.StreamClientsHandler)
		api.GET("/identity/:key", hb.GetClientIdentityHandler)
		api.GET("/export", hb.ExportClientsHandler)
		api.POST("/export/archive", hb.ArchiveExportHandler)

		api.POST("", hb.AddClientHandler)
		api.POST("/import", hb.ImportClientsHandler)
		api.DELETE("/:id", hb.DeleteClientHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})

	RegisterHealthRoute(r, hb)
	RegisterClientRoutes(r, hb)
}
