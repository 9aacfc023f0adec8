package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/govalues/decimal"

	"github.com/osenchenko/masterbid/internal/core/domain"
)

type Service interface {
	RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error)
	LoginUser(ctx context.Context, phone string, password string) (string, error)
	GetUser(ctx context.Context, userID uint64) (*domain.User, error)
	UpdateUserProfile(ctx context.Context, actor domain.Actor, user *domain.User) (*domain.User, error)

	CreateAnnouncement(ctx context.Context, actor domain.Actor, a *domain.Announcement) (*domain.Announcement, error)
	ListOpenAnnouncements(ctx context.Context) ([]*domain.Announcement, error)
	GetAnnouncement(ctx context.Context, id uuid.UUID) (*domain.Announcement, error)

	PlaceBid(ctx context.Context, actor domain.Actor, announcementID uuid.UUID, price decimal.Decimal) (*domain.Bid, error)
	WithdrawBid(ctx context.Context, actor domain.Actor, bidID uuid.UUID) error
	ListBids(ctx context.Context, announcementID uuid.UUID) ([]*domain.Bid, error)
	LeadingBid(ctx context.Context, announcementID uuid.UUID) (*domain.Bid, error)

	AssignOrder(ctx context.Context, actor domain.Actor, bidID uuid.UUID) (*domain.Order, error)
	SubmitMeasuredPrice(ctx context.Context, actor domain.Actor, orderID uuid.UUID, price decimal.Decimal) (*domain.Order, error)
	PayCommission(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Order, error)
	CancelOrder(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Order, error)
	ListOrders(ctx context.Context, actor domain.Actor) ([]*domain.Order, error)

	SubscribePush(ctx context.Context, actor domain.Actor, sub *domain.PushSubscription) error

	// Admin surface.
	ListUsers(ctx context.Context, actor domain.Actor) ([]*domain.User, error)
	ListAllAnnouncements(ctx context.Context, actor domain.Actor) ([]*domain.Announcement, error)
	ListAllBids(ctx context.Context, actor domain.Actor) ([]*domain.Bid, error)
	ListAllOrders(ctx context.Context, actor domain.Actor) ([]*domain.Order, error)
	DeleteAnnouncement(ctx context.Context, actor domain.Actor, id uuid.UUID) error
}
