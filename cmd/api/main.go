package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"mediconnect/internal/config"
	"mediconnect/internal/database"
	"mediconnect/internal/middleware"
	"mediconnect/internal/modules/appointment"
	"mediconnect/internal/modules/notification"
	jwtsvc "mediconnect/internal/pkg/jwt"
	"mediconnect/internal/realtime"
	"mediconnect/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db, repository.Models()...); err != nil {
		log.Fatal(err)
	}

	appointmentRepo := repository.NewAppointmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := realtime.NewHub()
	defer hub.Close()
	realtimeHandler := realtime.NewHandler(hub, j)

	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)
	dispatcher := notification.NewDispatcher(notificationService, hub)

	appointmentService := appointment.NewService(appointmentRepo, dispatcher, cfg.BookingWait)
	appointmentHandler := appointment.NewHandler(appointmentService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	root := r.Group("/")
	{
		// The websocket endpoint authenticates itself (token query param or
		// identify message), so it stays outside the auth middleware.
		realtimeHandler.RegisterRoutes(root)

		protected := root.Group("/")
		protected.Use(middleware.Auth(j))
		{
			appointmentHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
