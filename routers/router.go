// Package routers assembles the fiber application and mounts every route
// group under /api/v1.
package routers

import (
	"time"

	"learnhub/config"
	authController "learnhub/controllers/auth"
	clientLogController "learnhub/controllers/clientLog"
	courseController "learnhub/controllers/course"
	notificationController "learnhub/controllers/notification"
	paymentController "learnhub/controllers/payment"
	videoController "learnhub/controllers/video"
	"learnhub/middleware"
	"learnhub/routers/authRoutes"
	"learnhub/routers/clientLogRoutes"
	"learnhub/routers/courseRoutes"
	"learnhub/routers/notificationRoutes"
	"learnhub/routers/paymentRoutes"
	"learnhub/routers/videoRoutes"
	"learnhub/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func New(svc *services.Services, cfg *config.Config, log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "learnhub",
		ErrorHandler: middleware.ErrorHandler(log),
		ReadTimeout:  time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.ClientURL,
		AllowMethods:     "GET,POST,PUT,DELETE",
		AllowHeaders:     "Content-Type,Authorization,X-Session-ID",
		ExposeHeaders:    "X-Request-ID,X-Session-ID",
		AllowCredentials: cfg.ClientURL != "*",
	}))
	if !cfg.IsTest() {
		app.Use(fiberLogger.New(fiberLogger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
			Output: log.WriterLevel(logrus.DebugLevel),
		}))
	}
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.Tracking(log, cfg.IsProduction()))

	auth := middleware.NewAuth(svc.Auth)
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		})
	})

	authRoutes.SetupAuthRoutes(api, authController.New(svc.Auth, cfg), auth)
	courseRoutes.SetupCourseRoutes(api, courseController.New(svc), auth)
	paymentRoutes.SetupPaymentRoutes(api, paymentController.New(svc.Payments), auth)
	notificationRoutes.SetupNotificationRoutes(api, notificationController.New(svc.Notifications), auth)
	videoRoutes.SetupVideoRoutes(api, videoController.New(svc.Videos), auth)
	clientLogRoutes.SetupClientLogRoutes(api, clientLogController.New(svc.ClientLogs), auth)

	app.Use(func(c *fiber.Ctx) error {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "Route not found: "+c.OriginalURL())
	})

	return app
}
