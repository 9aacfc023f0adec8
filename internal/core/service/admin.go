package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/osenchenko/masterbid/internal/core/domain"
)

// The admin surface is read-mostly. Deletes here are an escape hatch and
// bypass the lifecycle invariants on purpose.

func (s *Service) ListUsers(ctx context.Context, actor domain.Actor) ([]*domain.User, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListUsers(ctx)
}

func (s *Service) ListAllAnnouncements(ctx context.Context, actor domain.Actor) ([]*domain.Announcement, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListAnnouncements(ctx)
}

func (s *Service) ListAllBids(ctx context.Context, actor domain.Actor) ([]*domain.Bid, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListBids(ctx)
}

func (s *Service) ListAllOrders(ctx context.Context, actor domain.Actor) ([]*domain.Order, error) {
	if actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListOrders(ctx)
}

func (s *Service) DeleteAnnouncement(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	err := s.repo.DeleteAnnouncement(ctx, id)
	if err != nil {
		s.logger.Error("Delete announcement", zap.Error(err))
		return err
	}
	return nil
}
