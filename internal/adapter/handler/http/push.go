package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/osenchenko/masterbid/internal/core/domain"
	"github.com/osenchenko/masterbid/internal/core/port"
)

type PushHandler struct {
	Handler
	service port.Service
}

func NewPushHandler(service port.Service, logger *zap.Logger) (*PushHandler, error) {
	return &PushHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		Auth   string `json:"auth"`
		P256DH string `json:"p256dh"`
	} `json:"keys"`
}

func (ph *PushHandler) Subscribe(ctx *gin.Context) {
	req := subscribeRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ph.handleValidationError(ctx, err)
		return
	}
	if req.Endpoint == "" {
		ph.handleError(ctx, domain.ErrBadRequest)
		return
	}

	actor := getAuthPayload(ctx).Actor()

	sub := &domain.PushSubscription{
		ID:        uuid.New(),
		Endpoint:  req.Endpoint,
		Auth:      req.Keys.Auth,
		P256DH:    req.Keys.P256DH,
		CreatedAt: time.Now(),
	}

	if err := ph.service.SubscribePush(ctx, actor, sub); err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccessWithStatus(ctx, nil, http.StatusCreated)
}
