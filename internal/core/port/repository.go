package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/osenchenko/masterbid/internal/core/domain"
)

// UpdateOrderFn mutates an order inside the repository transaction that
// re-read it with its status locked. Returning an error rolls the
// transaction back.
type UpdateOrderFn func(order *domain.Order) error

// TransferFn runs inside one transaction holding the order and both wallet
// rows. It is the only place balances change.
type TransferFn func(order *domain.Order, master *domain.User, mediator *domain.User) error

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	// User
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*domain.User, error)
	ReadUser(ctx context.Context, userID uint64) (*domain.User, error)
	UpdateUserProfile(ctx context.Context, user *domain.User) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// Announcement
	CreateAnnouncement(ctx context.Context, a *domain.Announcement) (*domain.Announcement, error)
	ReadAnnouncement(ctx context.Context, id uuid.UUID) (*domain.Announcement, error)
	ListAnnouncementsByStatus(ctx context.Context, status domain.AnnouncementStatus) ([]*domain.Announcement, error)
	ListAnnouncements(ctx context.Context) ([]*domain.Announcement, error)
	DeleteAnnouncement(ctx context.Context, id uuid.UUID) error

	// Bid
	UpsertBid(ctx context.Context, bid *domain.Bid) (*domain.Bid, error)
	ReadBid(ctx context.Context, id uuid.UUID) (*domain.Bid, error)
	ListBidsByAnnouncement(ctx context.Context, announcementID uuid.UUID) ([]*domain.Bid, error)
	ListBids(ctx context.Context) ([]*domain.Bid, error)
	DeleteBid(ctx context.Context, id uuid.UUID) error

	// Order
	CreateOrderAssignment(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByMaster(ctx context.Context, masterID uint64) ([]*domain.Order, error)
	ListOrdersByMediator(ctx context.Context, mediatorID uint64) ([]*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	TransitionOrder(ctx context.Context, orderID uuid.UUID, from domain.OrderStatus, fn UpdateOrderFn) (*domain.Order, error)
	CompleteOrderWithTransfer(ctx context.Context, orderID uuid.UUID, fn TransferFn) (*domain.Order, error)
	CancelOrderAssignment(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)

	// Push subscriptions
	CreatePushSubscription(ctx context.Context, sub *domain.PushSubscription) error
	ListPushSubscriptionsByUser(ctx context.Context, userID uint64) ([]*domain.PushSubscription, error)
}
