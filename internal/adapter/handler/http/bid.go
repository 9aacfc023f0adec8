package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"go.uber.org/zap"

	"github.com/osenchenko/masterbid/internal/core/domain"
	"github.com/osenchenko/masterbid/internal/core/port"
)

type BidHandler struct {
	Handler
	service port.Service
}

func NewBidHandler(service port.Service, logger *zap.Logger) (*BidHandler, error) {
	return &BidHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type placeBidRequest struct {
	AnnouncementID string  `json:"announcementId"`
	Price          float64 `json:"price"`
}

type bidResponse struct {
	ID             uuid.UUID       `json:"id"`
	AnnouncementID uuid.UUID       `json:"announcementId"`
	UserID         uint64          `json:"userId"`
	Price          decimal.Decimal `json:"price"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func newBidResponse(bid *domain.Bid) bidResponse {
	return bidResponse{
		ID:             bid.ID,
		AnnouncementID: bid.AnnouncementID,
		UserID:         bid.UserID,
		Price:          bid.Price,
		CreatedAt:      bid.CreatedAt,
	}
}

func (bh *BidHandler) PlaceBid(ctx *gin.Context) {
	req := placeBidRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		bh.handleValidationError(ctx, err)
		return
	}

	announcementID, err := uuid.Parse(req.AnnouncementID)
	if err != nil {
		bh.handleValidationError(ctx, err)
		return
	}

	price, err := decimal.NewFromFloat64(req.Price)
	if err != nil {
		bh.handleValidationError(ctx, err)
		return
	}

	actor := getAuthPayload(ctx).Actor()

	bid, err := bh.service.PlaceBid(ctx, actor, announcementID, price)
	if err != nil {
		bh.handleError(ctx, err)
		return
	}

	bh.handleSuccess(ctx, newBidResponse(bid))
}

func (bh *BidHandler) WithdrawBid(ctx *gin.Context) {
	bidID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		bh.handleValidationError(ctx, err)
		return
	}

	actor := getAuthPayload(ctx).Actor()

	if err := bh.service.WithdrawBid(ctx, actor, bidID); err != nil {
		bh.handleError(ctx, err)
		return
	}

	bh.handleSuccessWithStatus(ctx, nil, http.StatusNoContent)
}

func (bh *BidHandler) ListBids(ctx *gin.Context) {
	announcementID, err := uuid.Parse(ctx.Query("announcementId"))
	if err != nil {
		bh.handleValidationError(ctx, err)
		return
	}

	bids, err := bh.service.ListBids(ctx, announcementID)
	if err != nil {
		bh.handleError(ctx, err)
		return
	}

	resp := struct {
		Bids   []bidResponse `json:"bids"`
		Leader *bidResponse  `json:"leader,omitempty"`
	}{Bids: make([]bidResponse, 0, len(bids))}

	for _, b := range bids {
		resp.Bids = append(resp.Bids, newBidResponse(b))
	}

	leader, err := bh.service.LeadingBid(ctx, announcementID)
	if err == nil {
		l := newBidResponse(leader)
		resp.Leader = &l
	}

	bh.handleSuccess(ctx, resp)
}
