package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/osenchenko/masterbid/internal/adapter/config"
	"github.com/osenchenko/masterbid/internal/core/domain"
	"github.com/osenchenko/masterbid/internal/core/port"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	conf *config.HTTP,
	tokenService port.TokenService,
	userHandler *UserHandler,
	announcementHandler *AnnouncementHandler,
	bidHandler *BidHandler,
	orderHandler *OrderHandler,
	pushHandler *PushHandler,
	adminHandler *AdminHandler,
	logger *zap.Logger) (*Router, error) {

	router := gin.New()
	router.Use(gin.Recovery())

	base := NewHandler(logger)

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		user := api.Group("/user")
		{
			user.POST("/register", userHandler.RegisterUser)
			user.POST("/login", userHandler.LoginUser)
		}

		authorized := api.Group("")
		authorized.Use(authCheck(base, tokenService))
		{
			authorized.GET("/users/:id", userHandler.GetUser)
			authorized.PATCH("/users/:id", userHandler.UpdateUser)

			authorized.GET("/announcements", announcementHandler.ListOpenAnnouncements)
			authorized.GET("/announcements/:id", announcementHandler.GetAnnouncement)
			authorized.POST("/announcements",
				roleCheck(base, domain.RoleIntermediary), announcementHandler.CreateAnnouncement)

			authorized.GET("/bids", bidHandler.ListBids)
			authorized.POST("/bids",
				roleCheck(base, domain.RoleMaster), bidHandler.PlaceBid)
			authorized.DELETE("/bids/:id",
				roleCheck(base, domain.RoleMaster), bidHandler.WithdrawBid)

			authorized.GET("/orders", orderHandler.ListOrders)
			authorized.POST("/orders",
				roleCheck(base, domain.RoleIntermediary), orderHandler.CreateOrder)
			authorized.PATCH("/orders/:id", orderHandler.PatchOrder)

			authorized.POST("/push/subscribe", pushHandler.Subscribe)

			admin := authorized.Group("/admin")
			admin.Use(roleCheck(base, domain.RoleAdmin))
			{
				admin.GET("/users", adminHandler.ListUsers)
				admin.GET("/announcements", adminHandler.ListAnnouncements)
				admin.GET("/bids", adminHandler.ListBids)
				admin.GET("/orders", adminHandler.ListOrders)
				admin.DELETE("/announcements/:id", adminHandler.DeleteAnnouncement)
			}
		}
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
