package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/osenchenko/masterbid/internal/core/port"
)

type AdminHandler struct {
	Handler
	service port.Service
}

func NewAdminHandler(service port.Service, logger *zap.Logger) (*AdminHandler, error) {
	return &AdminHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

func (ah *AdminHandler) ListUsers(ctx *gin.Context) {
	actor := getAuthPayload(ctx).Actor()

	list, err := ah.service.ListUsers(ctx, actor)
	if err != nil {
		ah.handleError(ctx, err)
		return
	}

	result := make([]userResponse, 0, len(list))
	for _, user := range list {
		result = append(result, newUserResponse(user))
	}
	ah.handleSuccess(ctx, result)
}

func (ah *AdminHandler) ListAnnouncements(ctx *gin.Context) {
	actor := getAuthPayload(ctx).Actor()

	list, err := ah.service.ListAllAnnouncements(ctx, actor)
	if err != nil {
		ah.handleError(ctx, err)
		return
	}

	result := make([]announcementResponse, 0, len(list))
	for _, a := range list {
		result = append(result, newAnnouncementResponse(a))
	}
	ah.handleSuccess(ctx, result)
}

func (ah *AdminHandler) ListBids(ctx *gin.Context) {
	actor := getAuthPayload(ctx).Actor()

	list, err := ah.service.ListAllBids(ctx, actor)
	if err != nil {
		ah.handleError(ctx, err)
		return
	}

	result := make([]bidResponse, 0, len(list))
	for _, bid := range list {
		result = append(result, newBidResponse(bid))
	}
	ah.handleSuccess(ctx, result)
}

func (ah *AdminHandler) ListOrders(ctx *gin.Context) {
	actor := getAuthPayload(ctx).Actor()

	list, err := ah.service.ListAllOrders(ctx, actor)
	if err != nil {
		ah.handleError(ctx, err)
		return
	}

	result := make([]orderResponse, 0, len(list))
	for _, order := range list {
		result = append(result, newOrderResponse(order))
	}
	ah.handleSuccess(ctx, result)
}

func (ah *AdminHandler) DeleteAnnouncement(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ah.handleValidationError(ctx, err)
		return
	}

	actor := getAuthPayload(ctx).Actor()

	if err := ah.service.DeleteAnnouncement(ctx, actor, id); err != nil {
		ah.handleError(ctx, err)
		return
	}

	ah.handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}
