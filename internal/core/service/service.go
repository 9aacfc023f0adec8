package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/osenchenko/masterbid/internal/core/domain"
	"github.com/osenchenko/masterbid/internal/core/port"
	"github.com/osenchenko/masterbid/internal/core/utils"
)

type Service struct {
	repo         port.Repository
	tokenService port.TokenService
	notifier     port.Notifier
	logger       *zap.Logger
}

func NewService(repo port.Repository, tokenService port.TokenService,
	notifier port.Notifier, logger *zap.Logger) (*Service, error) {
	return &Service{
		repo:         repo,
		tokenService: tokenService,
		notifier:     notifier,
		logger:       logger,
	}, nil
}

func (s *Service) RegisterUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	exUser, err := s.repo.GetUserByPhone(ctx, user.Phone)
	if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
		s.logger.Error("Get user", zap.Error(err))
		return nil, domain.ErrInternal
	}

	if exUser != nil {
		return nil, domain.ErrConflictingData
	}

	// Admins are never self-registered.
	if user.Role != domain.RoleIntermediary {
		user.Role = domain.RoleMaster
	}

	newUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		s.logger.Error("Create user", zap.Error(err))
		return nil, domain.ErrInternal
	}

	return newUser, nil
}

func (s *Service) LoginUser(ctx context.Context, phone string, password string) (string, error) {
	user, err := s.repo.GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", domain.ErrInternal
	}

	err = utils.ComparePassword(password, user.Password)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokenService.CreateToken(user)
	if err != nil {
		s.logger.Error("Create token", zap.Error(err))
		return "", domain.ErrTokenCreation
	}

	return token, nil
}

func (s *Service) GetUser(ctx context.Context, userID uint64) (*domain.User, error) {
	user, err := s.repo.ReadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserProfile merges the non-empty fields into the stored profile, so
// a request carrying only a new first name leaves the phone alone.
func (s *Service) UpdateUserProfile(ctx context.Context, actor domain.Actor, user *domain.User) (*domain.User, error) {
	if actor.UserID != user.ID && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	current, err := s.repo.ReadUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if user.Phone != "" {
		current.Phone = user.Phone
	}
	if user.FirstName != "" {
		current.FirstName = user.FirstName
	}
	if user.LastName != "" {
		current.LastName = user.LastName
	}

	updated, err := s.repo.UpdateUserProfile(ctx, current)
	if err != nil {
		s.logger.Error("Update user profile", zap.Error(err))
		return nil, err
	}
	return updated, nil
}

func (s *Service) SubscribePush(ctx context.Context, actor domain.Actor, sub *domain.PushSubscription) error {
	sub.UserID = actor.UserID
	err := s.repo.CreatePushSubscription(ctx, sub)
	if err != nil && !errors.Is(err, domain.ErrConflictingData) {
		s.logger.Error("Create push subscription", zap.Error(err))
		return err
	}
	// Re-subscribing with the same endpoint is fine.
	return nil
}
