package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/osenchenko/masterbid/internal/core/domain"
)

const bidColumns = "id, announcement_id, user_id, price, created_at"

func scanBid(row pgx.Row, bid *domain.Bid) error {
	return row.Scan(
		&bid.ID,
		&bid.AnnouncementID,
		&bid.UserID,
		&bid.Price,
		&bid.CreatedAt,
	)
}

// UpsertBid inserts the bid or, when the (announcement, user) pair already
// holds one, replaces its price in place. The announcement row is share-locked
// in the same transaction, so a bid cannot land on an announcement a
// concurrent assignment is closing. The stored row keeps its original id and
// created_at, so the returned bid reflects them.
func (r *Repository) UpsertBid(ctx context.Context, bid *domain.Bid) (*domain.Bid, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		statement := r.db.QueryBuilder.
			Select("status").
			From("announcements").
			Where(sq.Eq{"id": bid.AnnouncementID}).
			Suffix("FOR SHARE")

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}

		var status domain.AnnouncementStatus
		if err := tx.QueryRow(ctx, sql, args...).Scan(&status); err != nil {
			if err == pgx.ErrNoRows {
				return domain.ErrDataNotFound
			}
			return err
		}
		if status != domain.AnnouncementStatusActive {
			return domain.ErrAnnouncementNotOpen
		}

		insert := r.db.QueryBuilder.
			Insert("bids").
			Columns("id", "announcement_id", "user_id", "price", "created_at").
			Values(bid.ID, bid.AnnouncementID, bid.UserID, bid.Price, bid.CreatedAt).
			Suffix("ON CONFLICT (announcement_id, user_id) DO UPDATE SET price = EXCLUDED.price " +
				"RETURNING id, created_at")

		sql, args, err = insert.ToSql()
		if err != nil {
			return err
		}

		return tx.QueryRow(ctx, sql, args...).Scan(&bid.ID, &bid.CreatedAt)
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return bid, nil
}

func (r *Repository) ReadBid(ctx context.Context, id uuid.UUID) (*domain.Bid, error) {
	statement := r.db.QueryBuilder.
		Select(bidColumns).
		From("bids").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	bid := domain.Bid{}
	err = scanBid(r.db.QueryRow(ctx, sql, args...), &bid)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &bid, nil
}

func (r *Repository) ListBidsByAnnouncement(ctx context.Context, announcementID uuid.UUID) ([]*domain.Bid, error) {
	statement := r.db.QueryBuilder.
		Select(bidColumns).
		From("bids").
		Where(sq.Eq{"announcement_id": announcementID}).
		OrderBy("price", "created_at")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	return r.listBids(ctx, sql, args)
}

func (r *Repository) ListBids(ctx context.Context) ([]*domain.Bid, error) {
	statement := r.db.QueryBuilder.
		Select(bidColumns).
		From("bids").
		OrderBy("created_at DESC")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	return r.listBids(ctx, sql, args)
}

func (r *Repository) listBids(ctx context.Context, sql string, args []any) ([]*domain.Bid, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Bid, 0)
	for rows.Next() {
		bid := domain.Bid{}
		if err := scanBid(rows, &bid); err != nil {
			return nil, err
		}
		list = append(list, &bid)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// DeleteBid refuses to remove a bid an order references: the foreign key
// from orders.bid_id turns that delete into ErrBidLocked.
func (r *Repository) DeleteBid(ctx context.Context, id uuid.UUID) error {
	statement := r.db.QueryBuilder.
		Delete("bids").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrBidLocked
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDataNotFound
	}

	return nil
}
