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

type AnnouncementHandler struct {
	Handler
	service port.Service
}

func NewAnnouncementHandler(service port.Service, logger *zap.Logger) (*AnnouncementHandler, error) {
	return &AnnouncementHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type createAnnouncementRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Address     string `json:"address"`
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`
}

type announcementResponse struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uint64           `json:"userId"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Address     string           `json:"address"`
	ClientName  string           `json:"clientName"`
	ClientPhone string           `json:"clientPhone"`
	Status      string           `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	MinBidPrice *decimal.Decimal `json:"minBidPrice,omitempty"`
	BidCount    int              `json:"bidCount"`
}

func newAnnouncementResponse(a *domain.Announcement) announcementResponse {
	resp := announcementResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		Title:       a.Title,
		Description: a.Description,
		Address:     a.Address,
		ClientName:  a.ClientName,
		ClientPhone: a.ClientPhone,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		BidCount:    a.BidCount,
	}
	if a.MinBidPrice.Cmp(decimal.Zero) != 0 {
		d := a.MinBidPrice
		resp.MinBidPrice = &d
	}
	return resp
}

func (ah *AnnouncementHandler) CreateAnnouncement(ctx *gin.Context) {
	req := createAnnouncementRequest{}
	if err := ctx.ShouldBindBodyWithJSON(&req); err != nil {
		ah.handleValidationError(ctx, err)
		return
	}

	if req.Title == "" || req.Description == "" || req.Address == "" ||
		req.ClientName == "" || req.ClientPhone == "" {
		ah.handleError(ctx, domain.ErrBadRequest)
		return
	}

	actor := getAuthPayload(ctx).Actor()

	a := &domain.Announcement{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
	}

	created, err := ah.service.CreateAnnouncement(ctx, actor, a)
	if err != nil {
		ah.handleError(ctx, err)
		return
	}

	ah.handleSuccess(ctx, newAnnouncementResponse(created))
}

func (ah *AnnouncementHandler) ListOpenAnnouncements(ctx *gin.Context) {
	list, err := ah.service.ListOpenAnnouncements(ctx)
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

func (ah *AnnouncementHandler) GetAnnouncement(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ah.handleValidationError(ctx, err)
		return
	}

	a, err := ah.service.GetAnnouncement(ctx, id)
	if err != nil {
		ah.handleError(ctx, err)
		return
	}

	bids, err := ah.service.ListBids(ctx, id)
	if err != nil {
		ah.handleError(ctx, err)
		return
	}

	resp := struct {
		announcementResponse
		Bids   []bidResponse `json:"bids"`
		Leader *bidResponse  `json:"leader,omitempty"`
	}{
		announcementResponse: newAnnouncementResponse(a),
		Bids:                 make([]bidResponse, 0, len(bids)),
	}
	for _, b := range bids {
		resp.Bids = append(resp.Bids, newBidResponse(b))
	}

	leader, err := ah.service.LeadingBid(ctx, id)
	if err == nil {
		l := newBidResponse(leader)
		resp.Leader = &l
	}

	ah.handleSuccess(ctx, resp)
}
