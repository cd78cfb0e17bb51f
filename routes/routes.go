package routes

import (
	"backend/controllers"
	"backend/middlewares"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Auth       *controllers.AuthController
	User       *controllers.UserController
	Device     *controllers.DeviceController
	Telemetry  *controllers.TelemetryController
	Plan       *controllers.PlanController
	Correction *controllers.CorrectionController
	Stats      *controllers.StatsController
	Catalog    *controllers.CatalogController
	Realtime   *controllers.RealtimeController
}

func SetupRouter(cs Controllers) *gin.Engine {
	r := gin.Default()

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", cs.Auth.Register)
		auth.POST("/login", cs.Auth.Login)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", cs.User.GetProfile)
		user.PUT("/profile", cs.User.UpdateProfile)
	}

	devices := r.Group("/devices")
	devices.Use(middlewares.AuthMiddleware())
	{
		devices.POST("", cs.Device.Register)
		devices.GET("", cs.Device.List)
		devices.DELETE("/:id", cs.Device.Deactivate)
		devices.POST("/push", cs.Device.RegisterPush)
	}

	telemetry := r.Group("/telemetry")
	telemetry.Use(middlewares.AuthMiddleware())
	{
		telemetry.POST("", cs.Telemetry.Ingest)
		telemetry.POST("/batch", cs.Telemetry.IngestBatch)
		telemetry.POST("/sleep", cs.Telemetry.AddSleepRecord)
		telemetry.POST("/training", cs.Telemetry.AddTrainingSession)
	}

	plans := r.Group("/plans")
	plans.Use(middlewares.AuthMiddleware())
	{
		plans.POST("", cs.Plan.Generate)
		plans.GET("", cs.Plan.GetByDate)
		plans.GET("/:id", cs.Plan.GetByID)

		plans.POST("/:id/corrections/check", cs.Correction.Check)
		plans.GET("/:id/corrections", cs.Correction.List)
		plans.POST("/:id/corrections/apply", cs.Correction.Apply)
		plans.POST("/:id/corrections/:recId/reject", cs.Correction.Reject)
		plans.POST("/:id/menu-changes", cs.Correction.MenuChanges)
	}

	stats := r.Group("/statistics")
	stats.Use(middlewares.AuthMiddleware())
	{
		stats.GET("/daily", cs.Stats.Daily)
		stats.GET("/weekly", cs.Stats.Weekly)
		stats.GET("/weekly/compare", cs.Stats.CompareWeeks)
		stats.POST("/weekly/email", cs.Stats.EmailReport)
	}

	catalog := r.Group("/catalog")
	catalog.Use(middlewares.AuthMiddleware())
	{
		catalog.GET("/recipes", cs.Catalog.ListRecipes)
		catalog.GET("/recipes/:id", cs.Catalog.GetRecipe)
		catalog.GET("/products", cs.Catalog.ListProducts)
		catalog.GET("/products/:id", cs.Catalog.GetProduct)
		catalog.GET("/templates", cs.Catalog.ListTemplates)
		catalog.GET("/templates/:id", cs.Catalog.GetTemplate)
	}

	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("", cs.Realtime.EventsWS)
	}

	alerts := r.Group("/alerts")
	alerts.Use(middlewares.AuthMiddleware())
	{
		alerts.GET("", cs.Realtime.ListAlerts)
	}

	return r
}
