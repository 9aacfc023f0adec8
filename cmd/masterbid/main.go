package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/osenchenko/masterbid/internal/adapter/auth"
	"github.com/osenchenko/masterbid/internal/adapter/config"
	"github.com/osenchenko/masterbid/internal/adapter/handler/http"
	"github.com/osenchenko/masterbid/internal/adapter/logger"
	"github.com/osenchenko/masterbid/internal/adapter/notify"
	"github.com/osenchenko/masterbid/internal/adapter/storage"
	"github.com/osenchenko/masterbid/internal/adapter/storage/repository"
	"github.com/osenchenko/masterbid/internal/core/service"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log := logger.NewLogger(conf.App)
	if log == nil {
		fmt.Printf("error creating log")
		return
	}
	defer func() {
		err := log.Sync()
		if err != nil {
			fmt.Printf("log error: %s", err)
		}
	}()

	ctx := context.Background()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("repo creating error", zap.Error(err))
		return
	}

	tokenService, err := auth.New()
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	dispatcher, err := notify.NewPushDispatcher(conf.Push, repo, log.Named("Push"))
	if err != nil {
		log.Error("push dispatcher creating error", zap.Error(err))
		return
	}
	dispatcher.Run(ctx, conf.Push.Workers)

	svc, err := service.NewService(repo, tokenService, dispatcher, log.Named("Service"))
	if err != nil {
		log.Error("service creating error", zap.Error(err))
		return
	}

	userHandler, err := http.NewUserHandler(svc, log.Named("User handler"))
	if err != nil {
		log.Error("user handler creating error", zap.Error(err))
		return
	}
	announcementHandler, err := http.NewAnnouncementHandler(svc, log.Named("Announcement handler"))
	if err != nil {
		log.Error("announcement handler creating error", zap.Error(err))
		return
	}
	bidHandler, err := http.NewBidHandler(svc, log.Named("Bid handler"))
	if err != nil {
		log.Error("bid handler creating error", zap.Error(err))
		return
	}
	orderHandler, err := http.NewOrderHandler(svc, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	pushHandler, err := http.NewPushHandler(svc, log.Named("Push handler"))
	if err != nil {
		log.Error("push handler creating error", zap.Error(err))
		return
	}
	adminHandler, err := http.NewAdminHandler(svc, log.Named("Admin handler"))
	if err != nil {
		log.Error("admin handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, tokenService,
		userHandler, announcementHandler, bidHandler, orderHandler, pushHandler, adminHandler,
		log.Named("Router"))
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	err = r.Serve(conf.HTTP.HostString)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
}
