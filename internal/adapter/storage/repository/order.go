package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/osenchenko/masterbid/internal/core/domain"
	"github.com/osenchenko/masterbid/internal/core/port"
)

const orderColumns = "id, announcement_id, bid_id, mediator_id, master_id, status, measured_price, commission, created_at"

func scanOrder(row pgx.Row, order *domain.Order) error {
	return row.Scan(
		&order.ID,
		&order.AnnouncementID,
		&order.BidID,
		&order.MediatorID,
		&order.MasterID,
		&order.Status,
		&order.MeasuredPrice,
		&order.Commission,
		&order.CreatedAt,
	)
}

// CreateOrderAssignment inserts the order and flips the announcement from
// ACTIVE to ASSIGNED in one transaction. The unique index on bid_id makes a
// concurrent duplicate insert fail with ErrConflictingData; an announcement
// that is no longer ACTIVE rolls the insert back with ErrAnnouncementNotOpen.
func (r *Repository) CreateOrderAssignment(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		statement := r.db.QueryBuilder.
			Insert("orders").
			Columns("id", "announcement_id", "bid_id", "mediator_id", "master_id",
				"status", "measured_price", "commission", "created_at").
			Values(order.ID, order.AnnouncementID, order.BidID, order.MediatorID, order.MasterID,
				order.Status, order.MeasuredPrice, order.Commission, order.CreatedAt)

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return err
		}

		update := r.db.QueryBuilder.
			Update("announcements").
			Set("status", domain.AnnouncementStatusAssigned).
			Where(sq.Eq{
				"id":     order.AnnouncementID,
				"status": domain.AnnouncementStatusActive,
			})

		sql, args, err = update.ToSql()
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrAnnouncementNotOpen
		}

		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return order, nil
}

func (r *Repository) ReadOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns).
		From("orders").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order := domain.Order{}
	err = scanOrder(r.db.QueryRow(ctx, sql, args...), &order)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

func (r *Repository) ListOrdersByMaster(ctx context.Context, masterID uint64) ([]*domain.Order, error) {
	return r.listOrders(ctx, sq.Eq{"master_id": masterID})
}

func (r *Repository) ListOrdersByMediator(ctx context.Context, mediatorID uint64) ([]*domain.Order, error) {
	return r.listOrders(ctx, sq.Eq{"mediator_id": mediatorID})
}

func (r *Repository) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return r.listOrders(ctx, nil)
}

func (r *Repository) listOrders(ctx context.Context, where any) ([]*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns).
		From("orders").
		OrderBy("created_at DESC")
	if where != nil {
		statement = statement.Where(where)
	}

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Order, 0)
	for rows.Next() {
		order := domain.Order{}
		if err := scanOrder(rows, &order); err != nil {
			return nil, err
		}
		list = append(list, &order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (r *Repository) readOrderForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Order, error) {
	statement := r.db.QueryBuilder.
		Select(orderColumns).
		From("orders").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	order := domain.Order{}
	err = scanOrder(tx.QueryRow(ctx, sql, args...), &order)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

func (r *Repository) writeOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	statement := r.db.QueryBuilder.
		Update("orders").
		Set("status", order.Status).
		Set("measured_price", order.MeasuredPrice).
		Set("commission", order.Commission).
		Where(sq.Eq{"id": order.ID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, sql, args...)
	return err
}

// TransitionOrder re-reads the order with its row locked, checks it is still
// in the expected state and applies fn, all in one transaction. A stale
// expectation fails with ErrInvalidTransition instead of overwriting a
// concurrent transition.
func (r *Repository) TransitionOrder(ctx context.Context, orderID uuid.UUID,
	from domain.OrderStatus, fn port.UpdateOrderFn) (*domain.Order, error) {
	var order *domain.Order

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		order, err = r.readOrderForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != from {
			return domain.ErrInvalidTransition
		}

		if err := fn(order); err != nil {
			return err
		}

		return r.writeOrder(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// CompleteOrderWithTransfer locks the order and both wallet rows, runs fn and
// persists whatever it changed. A failing fn rolls everything back, so the
// debit, the credit and the status write land together or not at all. The
// announcement of a completed order moves to COMPLETED in the same commit.
func (r *Repository) CompleteOrderWithTransfer(ctx context.Context, orderID uuid.UUID,
	fn port.TransferFn) (*domain.Order, error) {
	var order *domain.Order

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		order, err = r.readOrderForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}

		master, mediator, err := r.lockWallets(ctx, tx, order.MasterID, order.MediatorID)
		if err != nil {
			return err
		}

		if err := fn(order, master, mediator); err != nil {
			return err
		}

		for _, user := range []*domain.User{master, mediator} {
			statement := r.db.QueryBuilder.
				Update("users").
				Set("balance", user.Balance).
				Where(sq.Eq{"id": user.ID})

			sql, args, err := statement.ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return err
			}
		}

		if err := r.writeOrder(ctx, tx, order); err != nil {
			return err
		}

		if order.Status == domain.OrderStatusCompleted {
			statement := r.db.QueryBuilder.
				Update("announcements").
				Set("status", domain.AnnouncementStatusCompleted).
				Where(sq.Eq{
					"id":     order.AnnouncementID,
					"status": domain.AnnouncementStatusAssigned,
				})

			sql, args, err := statement.ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// lockWallets acquires both user rows in id order so two settlements
// touching the same pair cannot deadlock.
func (r *Repository) lockWallets(ctx context.Context, tx pgx.Tx,
	masterID, mediatorID uint64) (*domain.User, *domain.User, error) {
	statement := r.db.QueryBuilder.
		Select(userColumns).
		From("users").
		Where(sq.Eq{"id": []uint64{masterID, mediatorID}}).
		OrderBy("id").
		Suffix("FOR UPDATE")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, nil, err
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	byID := make(map[uint64]*domain.User, 2)
	for rows.Next() {
		user := domain.User{}
		if err := scanUser(rows, &user); err != nil {
			return nil, nil, err
		}
		byID[user.ID] = &user
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	master, ok := byID[masterID]
	if !ok {
		return nil, nil, domain.ErrDataNotFound
	}
	mediator, ok := byID[mediatorID]
	if !ok {
		return nil, nil, domain.ErrDataNotFound
	}

	return master, mediator, nil
}

// CancelOrderAssignment cancels an order still awaiting measurement and
// reopens its announcement, atomically.
func (r *Repository) CancelOrderAssignment(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	var order *domain.Order

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		order, err = r.readOrderForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.Status != domain.OrderStatusAwaitingMeasurement {
			return domain.ErrInvalidTransition
		}

		order.Status = domain.OrderStatusCancelled
		if err := r.writeOrder(ctx, tx, order); err != nil {
			return err
		}

		statement := r.db.QueryBuilder.
			Update("announcements").
			Set("status", domain.AnnouncementStatusActive).
			Where(sq.Eq{
				"id":     order.AnnouncementID,
				"status": domain.AnnouncementStatusAssigned,
			})

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, sql, args...)
		return err
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}
