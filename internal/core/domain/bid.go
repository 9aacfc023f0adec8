package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

// Bid is a master's price offer for an announcement. The auction is a
// reverse one: the lowest price leads. A master holds at most one bid
// per announcement; placing again replaces the price in place.
type Bid struct {
	ID             uuid.UUID
	AnnouncementID uuid.UUID
	UserID         uint64
	Price          decimal.Decimal
	CreatedAt      time.Time
}
