package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
)

type OrderStatus string

const (
	OrderStatusAwaitingMeasurement OrderStatus = "AWAITING_MEASUREMENT"
	OrderStatusAwaitingCommission  OrderStatus = "AWAITING_COMMISSION"
	OrderStatusCompleted           OrderStatus = "COMPLETED"
	OrderStatusCancelled           OrderStatus = "CANCELLED"
)

// Order is created from exactly one bid. The unique bid reference is what
// guarantees a bid is never assigned twice.
type Order struct {
	ID             uuid.UUID
	AnnouncementID uuid.UUID
	BidID          uuid.UUID
	MediatorID     uint64
	MasterID       uint64
	Status         OrderStatus
	MeasuredPrice  decimal.Decimal // zero until the master submits a measurement
	Commission     decimal.Decimal
	CreatedAt      time.Time
}
