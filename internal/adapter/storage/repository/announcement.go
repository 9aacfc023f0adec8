package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/osenchenko/masterbid/internal/core/domain"
)

const announcementColumns = "id, user_id, title, description, address, client_name, client_phone, status, created_at"

func scanAnnouncement(row pgx.Row, a *domain.Announcement) error {
	return row.Scan(
		&a.ID,
		&a.UserID,
		&a.Title,
		&a.Description,
		&a.Address,
		&a.ClientName,
		&a.ClientPhone,
		&a.Status,
		&a.CreatedAt,
	)
}

func (r *Repository) CreateAnnouncement(ctx context.Context, a *domain.Announcement) (*domain.Announcement, error) {
	statement := r.db.QueryBuilder.
		Insert("announcements").
		Columns("id", "user_id", "title", "description", "address", "client_name", "client_phone", "status", "created_at").
		Values(a.ID, a.UserID, a.Title, a.Description, a.Address, a.ClientName, a.ClientPhone, a.Status, a.CreatedAt)

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflictingData
		}
		return nil, err
	}

	return a, nil
}

func (r *Repository) ReadAnnouncement(ctx context.Context, id uuid.UUID) (*domain.Announcement, error) {
	statement := r.db.QueryBuilder.
		Select(announcementColumns).
		From("announcements").
		Where(sq.Eq{"id": id})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	a := domain.Announcement{}
	err = scanAnnouncement(r.db.QueryRow(ctx, sql, args...), &a)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDataNotFound
		}
		return nil, err
	}

	return &a, nil
}

// ListAnnouncementsByStatus also aggregates the bids so the board can show
// the current leading price without a second query per row.
func (r *Repository) ListAnnouncementsByStatus(ctx context.Context, status domain.AnnouncementStatus) ([]*domain.Announcement, error) {
	statement := r.db.QueryBuilder.
		Select("a.id", "a.user_id", "a.title", "a.description", "a.address",
			"a.client_name", "a.client_phone", "a.status", "a.created_at",
			"COALESCE(MIN(b.price), 0)", "COUNT(b.id)").
		From("announcements a").
		LeftJoin("bids b ON b.announcement_id = a.id").
		Where(sq.Eq{"a.status": status}).
		GroupBy("a.id").
		OrderBy("a.created_at DESC")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Announcement, 0)
	for rows.Next() {
		a := domain.Announcement{}
		err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Title,
			&a.Description,
			&a.Address,
			&a.ClientName,
			&a.ClientPhone,
			&a.Status,
			&a.CreatedAt,
			&a.MinBidPrice,
			&a.BidCount,
		)
		if err != nil {
			return nil, err
		}
		list = append(list, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (r *Repository) ListAnnouncements(ctx context.Context) ([]*domain.Announcement, error) {
	statement := r.db.QueryBuilder.
		Select(announcementColumns).
		From("announcements").
		OrderBy("created_at DESC")

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.Announcement, 0)
	for rows.Next() {
		a := domain.Announcement{}
		if err := scanAnnouncement(rows, &a); err != nil {
			return nil, err
		}
		list = append(list, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// DeleteAnnouncement removes the announcement together with everything that
// references it. Admin escape hatch only.
func (r *Repository) DeleteAnnouncement(ctx context.Context, id uuid.UUID) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, table := range []string{"orders", "bids"} {
			statement := r.db.QueryBuilder.
				Delete(table).
				Where(sq.Eq{"announcement_id": id})

			sql, args, err := statement.ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return err
			}
		}

		statement := r.db.QueryBuilder.
			Delete("announcements").
			Where(sq.Eq{"id": id})

		sql, args, err := statement.ToSql()
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrDataNotFound
		}
		return nil
	})
}
