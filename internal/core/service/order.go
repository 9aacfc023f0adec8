package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"go.uber.org/zap"

	"github.com/osenchenko/masterbid/internal/core/domain"
	"github.com/osenchenko/masterbid/internal/core/ledger"
)

var (
	commissionRate = decimal.MustNew(1, 1) // 10% of the price
	two            = decimal.MustNew(2, 0)
)

func commissionFor(price decimal.Decimal) (decimal.Decimal, error) {
	c, err := price.Mul(commissionRate)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return c.Round(2), nil
}

// AssignOrder turns the bid into an order and closes the announcement for
// bidding. The unique order-per-bid constraint is the only guard against two
// intermediaries (or two retries) assigning the same bid: the second insert
// comes back as a conflict and is reported as ErrAlreadyAssigned.
func (s *Service) AssignOrder(ctx context.Context, actor domain.Actor, bidID uuid.UUID) (*domain.Order, error) {
	if actor.Role != domain.RoleIntermediary {
		return nil, domain.ErrForbidden
	}

	bid, err := s.repo.ReadBid(ctx, bidID)
	if err != nil {
		return nil, err
	}
	if bid.UserID == actor.UserID {
		return nil, domain.ErrForbidden
	}

	announcement, err := s.repo.ReadAnnouncement(ctx, bid.AnnouncementID)
	if err != nil {
		return nil, err
	}
	if announcement.UserID != actor.UserID {
		return nil, domain.ErrForbidden
	}

	// Provisional until the measured price is known.
	commission, err := commissionFor(bid.Price)
	if err != nil {
		s.logger.Error("Commission math", zap.Error(err))
		return nil, domain.ErrInternal
	}

	order := &domain.Order{
		ID:             uuid.New(),
		AnnouncementID: bid.AnnouncementID,
		BidID:          bid.ID,
		MediatorID:     actor.UserID,
		MasterID:       bid.UserID,
		Status:         domain.OrderStatusAwaitingMeasurement,
		Commission:     commission,
		CreatedAt:      time.Now(),
	}

	created, err := s.repo.CreateOrderAssignment(ctx, order)
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) {
			return nil, domain.ErrAlreadyAssigned
		}
		if errors.Is(err, domain.ErrAnnouncementNotOpen) {
			return nil, domain.ErrAnnouncementNotOpen
		}
		s.logger.Error("Create order assignment", zap.Error(err))
		return nil, err
	}

	return created, nil
}

// SubmitMeasuredPrice records the price the master proposes after the
// on-site measurement and recomputes the commission from it.
func (s *Service) SubmitMeasuredPrice(ctx context.Context, actor domain.Actor,
	orderID uuid.UUID, price decimal.Decimal) (*domain.Order, error) {
	if price.Sign() <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleMaster || order.MasterID != actor.UserID {
		return nil, domain.ErrForbidden
	}

	updated, err := s.repo.TransitionOrder(ctx, orderID, domain.OrderStatusAwaitingMeasurement,
		func(o *domain.Order) error {
			commission, err := commissionFor(price)
			if err != nil {
				return err
			}
			o.MeasuredPrice = price
			o.Commission = commission
			o.Status = domain.OrderStatusAwaitingCommission
			return nil
		})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, domain.ErrInvalidTransition
		}
		s.logger.Error("Submit measured price", zap.Error(err))
		return nil, err
	}

	return updated, nil
}

// PayCommission settles the order: the master pays the commission, the
// mediator is credited half of it, the platform keeps the rest. Debit,
// credit and the status write commit together or not at all.
func (s *Service) PayCommission(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleMaster || order.MasterID != actor.UserID {
		return nil, domain.ErrForbidden
	}

	completed, err := s.repo.CompleteOrderWithTransfer(ctx, orderID,
		func(o *domain.Order, master *domain.User, mediator *domain.User) error {
			if o.Status != domain.OrderStatusAwaitingCommission {
				return domain.ErrInvalidTransition
			}
			if o.MeasuredPrice.Sign() <= 0 {
				return domain.ErrInvalidTransition
			}

			if err := ledger.Debit(master, o.Commission); err != nil {
				return err
			}

			mediatorShare, err := o.Commission.Quo(two)
			if err != nil {
				return err
			}
			if err := ledger.Credit(mediator, mediatorShare.Round(2)); err != nil {
				return err
			}

			o.Status = domain.OrderStatusCompleted
			return nil
		})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) ||
			errors.Is(err, domain.ErrInvalidTransition) {
			return nil, err
		}
		s.logger.Error("Pay commission", zap.Error(err))
		return nil, err
	}

	return completed, nil
}

// CancelOrder aborts an assignment before the measurement happened and puts
// the announcement back on the board. No money has moved at this point.
func (s *Service) CancelOrder(ctx context.Context, actor domain.Actor, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleIntermediary || order.MediatorID != actor.UserID {
		return nil, domain.ErrForbidden
	}

	cancelled, err := s.repo.CancelOrderAssignment(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, domain.ErrInvalidTransition
		}
		s.logger.Error("Cancel order", zap.Error(err))
		return nil, err
	}

	return cancelled, nil
}

func (s *Service) ListOrders(ctx context.Context, actor domain.Actor) ([]*domain.Order, error) {
	switch actor.Role {
	case domain.RoleMaster:
		return s.repo.ListOrdersByMaster(ctx, actor.UserID)
	case domain.RoleIntermediary:
		return s.repo.ListOrdersByMediator(ctx, actor.UserID)
	case domain.RoleAdmin:
		return s.repo.ListOrders(ctx)
	default:
		return nil, domain.ErrForbidden
	}
}
