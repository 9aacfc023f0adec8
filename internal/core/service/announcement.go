package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/osenchenko/masterbid/internal/core/domain"
)

func (s *Service) CreateAnnouncement(ctx context.Context, actor domain.Actor, a *domain.Announcement) (*domain.Announcement, error) {
	if actor.Role != domain.RoleIntermediary {
		return nil, domain.ErrForbidden
	}

	a.ID = uuid.New()
	a.UserID = actor.UserID
	a.Status = domain.AnnouncementStatusActive
	a.CreatedAt = time.Now()

	created, err := s.repo.CreateAnnouncement(ctx, a)
	if err != nil {
		s.logger.Error("Create announcement", zap.Error(err))
		return nil, err
	}

	return created, nil
}

// ListOpenAnnouncements returns the board: every announcement still open for
// bidding, newest first, with the current leading price attached.
func (s *Service) ListOpenAnnouncements(ctx context.Context) ([]*domain.Announcement, error) {
	list, err := s.repo.ListAnnouncementsByStatus(ctx, domain.AnnouncementStatusActive)
	if err != nil {
		s.logger.Error("List open announcements", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *Service) GetAnnouncement(ctx context.Context, id uuid.UUID) (*domain.Announcement, error) {
	a, err := s.repo.ReadAnnouncement(ctx, id)
	if err != nil {
		return nil, err
	}
	return a, nil
}
