package main

import (
	"log"
	"net/http"
	"os"

	"github.com/arnavshah/schedule-composer-api/pkg/auth"
	"github.com/arnavshah/schedule-composer-api/pkg/composer"
	"github.com/arnavshah/schedule-composer-api/pkg/database"
	"github.com/arnavshah/schedule-composer-api/pkg/handlers"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)
	h := &handlers.Handler{DB: db, Sessions: composer.NewStore()}

	r := gin.Default()

	// Admin interface - serve static files from embedded FS
	r.StaticFS("/static", h.GetStaticFS())

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Schedule Composer API",
			"version": "1.0.0",
		})
	})

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
		admin.GET("/drafts", h.ListDrafts)
	}

	// Composer Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/sessions", h.CreateSession)
		api.GET("/sessions/:id", h.GetSession)
		api.DELETE("/sessions/:id", h.DeleteSession)
		api.PUT("/sessions/:id/role", h.SetRoleType)
		api.PUT("/sessions/:id/submode", h.SetSubMode)

		api.POST("/sessions/:id/fulltime/toggle", h.ToggleFullTimeDay)
		api.POST("/sessions/:id/fulltime/time", h.SetFullTimeTime)

		api.POST("/sessions/:id/recurring/toggle", h.ToggleRecurringDay)
		api.POST("/sessions/:id/recurring/field", h.SetRecurringField)
		api.GET("/sessions/:id/recurring/preview", h.PreviewRecurring)

		api.POST("/sessions/:id/dates/toggle", h.ToggleDate)
		api.POST("/sessions/:id/shifts", h.AddShift)
		api.PATCH("/sessions/:id/shifts/:shiftID", h.UpdateShift)
		api.DELETE("/sessions/:id/shifts/:shiftID", h.RemoveShift)

		api.GET("/sessions/:id/export", h.ExportCSV)
		api.POST("/validate", h.ValidatePayload)
		api.GET("/usage", h.GetMyUsage)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
