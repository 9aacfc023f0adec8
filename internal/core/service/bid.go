package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"go.uber.org/zap"

	"github.com/osenchenko/masterbid/internal/core/domain"
)

// PlaceBid creates the master's bid for an announcement, or replaces the
// price of the existing one. The announcement must still be open.
func (s *Service) PlaceBid(ctx context.Context, actor domain.Actor,
	announcementID uuid.UUID, price decimal.Decimal) (*domain.Bid, error) {
	if actor.Role != domain.RoleMaster {
		return nil, domain.ErrForbidden
	}
	if price.Sign() <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	announcement, err := s.repo.ReadAnnouncement(ctx, announcementID)
	if err != nil {
		return nil, err
	}
	if announcement.Status != domain.AnnouncementStatusActive {
		return nil, domain.ErrAnnouncementNotOpen
	}

	bid := &domain.Bid{
		ID:             uuid.New(),
		AnnouncementID: announcementID,
		UserID:         actor.UserID,
		Price:          price,
		CreatedAt:      time.Now(),
	}

	saved, err := s.repo.UpsertBid(ctx, bid)
	if err != nil {
		// The write re-checks the status under a lock, so an assignment
		// committing between our read and the upsert surfaces here.
		if errors.Is(err, domain.ErrAnnouncementNotOpen) {
			return nil, domain.ErrAnnouncementNotOpen
		}
		s.logger.Error("Upsert bid", zap.Error(err))
		return nil, err
	}

	// Delivery runs outside the bid write; its failure never reaches here.
	bidder, err := s.repo.ReadUser(ctx, actor.UserID)
	if err != nil {
		s.logger.Warn("Read bidder for notification", zap.Error(err))
	} else {
		s.notifier.NotifyNewBid(announcement, saved, bidder)
	}

	return saved, nil
}

func (s *Service) WithdrawBid(ctx context.Context, actor domain.Actor, bidID uuid.UUID) error {
	bid, err := s.repo.ReadBid(ctx, bidID)
	if err != nil {
		return err
	}
	if bid.UserID != actor.UserID {
		return domain.ErrForbidden
	}

	err = s.repo.DeleteBid(ctx, bidID)
	if err != nil {
		if errors.Is(err, domain.ErrBidLocked) {
			return domain.ErrBidLocked
		}
		s.logger.Error("Delete bid", zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) ListBids(ctx context.Context, announcementID uuid.UUID) ([]*domain.Bid, error) {
	list, err := s.repo.ListBidsByAnnouncement(ctx, announcementID)
	if err != nil {
		s.logger.Error("List bids", zap.Error(err))
		return nil, err
	}
	return list, nil
}

// LeadingBid picks the winner of the reverse auction so far: the lowest
// price, ties broken by the earliest bid.
func (s *Service) LeadingBid(ctx context.Context, announcementID uuid.UUID) (*domain.Bid, error) {
	list, err := s.repo.ListBidsByAnnouncement(ctx, announcementID)
	if err != nil {
		return nil, err
	}

	leader := pickLeader(list)
	if leader == nil {
		return nil, domain.ErrDataNotFound
	}
	return leader, nil
}

func pickLeader(bids []*domain.Bid) *domain.Bid {
	var best *domain.Bid
	for _, b := range bids {
		if best == nil {
			best = b
			continue
		}
		switch c := b.Price.Cmp(best.Price); {
		case c < 0:
			best = b
		case c == 0 && b.CreatedAt.Before(best.CreatedAt):
			best = b
		}
	}
	return best
}
