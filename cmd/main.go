package main

import (
	"log"
	"os"

	"backend/config"
	"backend/controllers"
	"backend/routes"
	"backend/services"
	"backend/utils"
)

func main() {
	config.InitDB()
	utils.InitMailer()

	// services
	hub := services.NewRealtimeHub()
	push, err := services.NewPushService(config.DB)
	if err != nil {
		log.Printf("push service disabled: %v", err)
		push = nil
	}
	services.InitAlertDeps(config.DB, hub, push)

	authSvc := services.NewAuthService(config.DB)
	userSvc := services.NewUserService(config.DB)
	deviceSvc := services.NewDeviceService(config.DB)
	telemetrySvc := services.NewTelemetryService(config.DB)
	activitySvc := services.NewActivityService(config.DB)
	sleepSvc := services.NewSleepService(config.DB)
	planSvc := services.NewMealPlanService(config.DB)
	correctionSvc := services.NewCorrectionService(config.DB, activitySvc, sleepSvc)
	statsSvc := services.NewStatsService(config.DB)
	catalogSvc := services.NewCatalogService(config.DB)

	// controllers
	cs := routes.Controllers{
		Auth:       controllers.NewAuthController(authSvc),
		User:       controllers.NewUserController(userSvc),
		Device:     controllers.NewDeviceController(deviceSvc, push),
		Telemetry:  controllers.NewTelemetryController(telemetrySvc, hub),
		Plan:       controllers.NewPlanController(planSvc),
		Correction: controllers.NewCorrectionController(correctionSvc, planSvc),
		Stats:      controllers.NewStatsController(statsSvc, userSvc),
		Catalog:    controllers.NewCatalogController(catalogSvc),
		Realtime:   controllers.NewRealtimeController(hub),
	}

	r := routes.SetupRouter(cs)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
