package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"go.uber.org/zap"

	"github.com/osenchenko/masterbid/internal/core/domain"
	"github.com/osenchenko/masterbid/internal/core/port"
)

type OrderHandler struct {
	Handler
	service port.Service
}

func NewOrderHandler(service port.Service, logger *zap.Logger) (*OrderHandler, error) {
	return &OrderHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type createOrderRequest struct {
	BidID string `json:"bidId"`
}

type orderResponse struct {
	ID             uuid.UUID        `json:"id"`
	AnnouncementID uuid.UUID        `json:"announcementId"`
	BidID          uuid.UUID        `json:"bidId"`
	MediatorID     uint64           `json:"mediatorId"`
	MasterID       uint64           `json:"masterId"`
	Status         string           `json:"status"`
	MeasuredPrice  *decimal.Decimal `json:"measuredPrice,omitempty"`
	Commission     decimal.Decimal  `json:"commission"`
	CreatedAt      time.Time        `json:"createdAt"`
}

func newOrderResponse(order *domain.Order) orderResponse {
	resp := orderResponse{
		ID:             order.ID,
		AnnouncementID: order.AnnouncementID,
		BidID:          order.BidID,
		MediatorID:     order.MediatorID,
		MasterID:       order.MasterID,
		Status:         string(order.Status),
		Commission:     order.Commission,
		CreatedAt:      order.CreatedAt,
	}
	if order.MeasuredPrice.Cmp(decimal.Zero) != 0 {
		d := order.MeasuredPrice
		resp.MeasuredPrice = &d
	}
	return resp
}

// CreateOrder assigns a bid to its master.
func (oh *OrderHandler) CreateOrder(ctx *gin.Context) {
	req := createOrderRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	bidID, err := uuid.Parse(req.BidID)
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	actor := getAuthPayload(ctx).Actor()

	order, err := oh.service.AssignOrder(ctx, actor, bidID)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}

type patchOrderRequest struct {
	MeasuredPrice  *float64 `json:"measuredPrice"`
	CommissionPaid bool     `json:"masterCommissionPaid"`
	Status         string   `json:"status"`
}

// PatchOrder multiplexes the three order transitions the way the API
// consumer sends them: a measured price, a commission payment confirmation,
// or a cancellation.
func (oh *OrderHandler) PatchOrder(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	req := patchOrderRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		oh.handleValidationError(ctx, err)
		return
	}

	actor := getAuthPayload(ctx).Actor()

	var order *domain.Order
	switch {
	case req.MeasuredPrice != nil:
		price, err := decimal.NewFromFloat64(*req.MeasuredPrice)
		if err != nil {
			oh.handleValidationError(ctx, err)
			return
		}
		order, err = oh.service.SubmitMeasuredPrice(ctx, actor, orderID, price)
		if err != nil {
			oh.handleError(ctx, err)
			return
		}
	case req.CommissionPaid:
		order, err = oh.service.PayCommission(ctx, actor, orderID)
		if err != nil {
			oh.handleError(ctx, err)
			return
		}
	case req.Status == string(domain.OrderStatusCancelled):
		order, err = oh.service.CancelOrder(ctx, actor, orderID)
		if err != nil {
			oh.handleError(ctx, err)
			return
		}
	default:
		oh.handleError(ctx, domain.ErrBadRequest)
		return
	}

	oh.handleSuccess(ctx, newOrderResponse(order))
}

func (oh *OrderHandler) ListOrders(ctx *gin.Context) {
	actor := getAuthPayload(ctx).Actor()

	list, err := oh.service.ListOrders(ctx, actor)
	if err != nil {
		oh.handleError(ctx, err)
		return
	}

	result := make([]orderResponse, 0, len(list))
	for _, order := range list {
		result = append(result, newOrderResponse(order))
	}

	oh.handleSuccess(ctx, result)
}
