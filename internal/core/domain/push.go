package domain

import (
	"time"

	"github.com/google/uuid"
)

type PushSubscription struct {
	ID        uuid.UUID
	UserID    uint64
	Endpoint  string
	Auth      string
	P256DH    string
	CreatedAt time.Time
}
