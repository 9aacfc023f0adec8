package port

import "github.com/osenchenko/masterbid/internal/core/domain"

// Notifier delivers events outside the transaction boundary of the write
// that produced them. Implementations must never block the caller and
// never surface delivery failures to it.
//
//go:generate mockgen -source=notify.go -destination=mock/notify.go -package=mock
type Notifier interface {
	NotifyNewBid(announcement *domain.Announcement, bid *domain.Bid, bidder *domain.User)
}
