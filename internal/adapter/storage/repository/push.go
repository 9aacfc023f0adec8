package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/osenchenko/masterbid/internal/core/domain"
)

func (r *Repository) CreatePushSubscription(ctx context.Context, sub *domain.PushSubscription) error {
	statement := r.db.QueryBuilder.
		Insert("push_subscriptions").
		Columns("id", "user_id", "endpoint", "auth", "p256dh", "created_at").
		Values(sub.ID, sub.UserID, sub.Endpoint, sub.Auth, sub.P256DH, sub.CreatedAt)

	sql, args, err := statement.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflictingData
		}
		return err
	}

	return nil
}

func (r *Repository) ListPushSubscriptionsByUser(ctx context.Context, userID uint64) ([]*domain.PushSubscription, error) {
	statement := r.db.QueryBuilder.
		Select("id", "user_id", "endpoint", "auth", "p256dh", "created_at").
		From("push_subscriptions").
		Where(sq.Eq{"user_id": userID})

	sql, args, err := statement.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*domain.PushSubscription, 0)
	for rows.Next() {
		sub := domain.PushSubscription{}
		err := rows.Scan(&sub.ID, &sub.UserID, &sub.Endpoint, &sub.Auth, &sub.P256DH, &sub.CreatedAt)
		if err != nil {
			return nil, err
		}
		list = append(list, &sub)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
