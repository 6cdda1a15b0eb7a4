package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub/config"
	"learnhub/database"
	"learnhub/logger"
	"learnhub/routers"
	"learnhub/services"
	"learnhub/store"
	"learnhub/utils"
)

func main() {
	cfg := config.LoadConfig()

	appLog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}

	db, err := database.ConnectDb(cfg, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to the database")
	}

	st := store.New(db)

	if rdb := database.InitRedis(cfg, appLog); rdb != nil {
		st.TokenBlacklist = store.NewRedisTokenBlacklist(rdb)
		defer rdb.Close()
	}

	ctx := context.Background()
	mongoDB, err := database.ConnectMongo(ctx, cfg, appLog)
	if err != nil {
		appLog.WithError(err).Warn("MongoDB unavailable, client logs stay in SQL")
	}
	if mongoDB != nil {
		logs, err := store.NewMongoClientLogStore(ctx, mongoDB)
		if err != nil {
			appLog.WithError(err).Warn("Failed to prepare client log collection, client logs stay in SQL")
		} else {
			st.ClientLogs = logs
		}
		defer mongoDB.Client().Disconnect(context.Background())
	}

	gw := services.NewGateways(cfg)
	svc := services.New(st, cfg, gw, appLog)
	if gw.Stripe == nil {
		appLog.Warn("Stripe is not configured, card payments are disabled")
	}
	if gw.Video == nil {
		appLog.Warn("Vimeo is not configured, video uploads are disabled")
	}

	scheduler, err := utils.InitializeScheduler(appLog, []utils.ScheduledJob{
		{
			Name: "purge expired tokens",
			Spec: "@hourly",
			Run: func(ctx context.Context) (int64, error) {
				n, err := svc.Auth.PurgeExpiredTokens(ctx)
				return int64(n), err
			},
		},
		{
			Name: "purge client logs",
			Spec: "30 3 * * *",
			Run:  svc.ClientLogs.Purge,
		},
		{
			Name: "daily reminders",
			Spec: "0 9 * * *",
			Run: func(ctx context.Context) (int64, error) {
				n, err := svc.Notifications.SendDailyReminders(ctx)
				return int64(n), err
			},
		},
	})
	if err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	app := routers.New(svc, cfg, appLog)

	go func() {
		appLog.Infof("Server is running in %s mode on port %s", cfg.AppEnv, cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			appLog.WithError(err).Fatal("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down...")
	<-scheduler.Stop().Done()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLog.WithError(err).Error("Server shutdown failed")
	}
}
