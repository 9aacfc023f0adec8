package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

type AnnouncementStatus string

const (
	AnnouncementStatusActive    AnnouncementStatus = "ACTIVE"
	AnnouncementStatusAssigned  AnnouncementStatus = "ASSIGNED"
	AnnouncementStatusCompleted AnnouncementStatus = "COMPLETED"
)

type Announcement struct {
	ID          uuid.UUID
	UserID      uint64
	Title       string
	Description string
	Address     string
	ClientName  string
	ClientPhone string
	Status      AnnouncementStatus
	CreatedAt   time.Time

	// MinBidPrice is zero when the announcement has no bids yet.
	// Populated only by board listings.
	MinBidPrice decimal.Decimal
	BidCount    int
}
