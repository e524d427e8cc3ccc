package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/marcrz/naviera-booking/internal/model"
)

// NotificationRepo stores per-user messages. Rows are created through the
// API and by the queue consumer when booking events arrive.
type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

type NotificationFilter struct {
	ID       *uint64
	UserID   *uint64
	Username *string // substring on users.username
	Topic    *string // substring
	Body     *string // substring
	Created  TimeRange
}

func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO notifications (user_id, topic, body) VALUES (?,?,?)",
		n.UserID, n.Topic, n.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at, updated_at FROM notifications WHERE id=?", n.ID).
		Scan(&n.CreatedAt, &n.UpdatedAt)
}

func (r *NotificationRepo) GetByID(ctx context.Context, id uint64) (*model.Notification, error) {
	var n model.Notification
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, topic, body, created_at, updated_at FROM notifications WHERE id=?", id).
		Scan(&n.ID, &n.UserID, &n.Topic, &n.Body, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepo) Update(ctx context.Context, n *model.Notification) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET user_id=?, topic=?, body=? WHERE id=?",
		n.UserID, n.Topic, n.Body, n.ID)
	if err != nil {
		return err
	}
	if cnt, _ := res.RowsAffected(); cnt == 0 {
		if _, err := r.GetByID(ctx, n.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *NotificationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notifications WHERE id=?", id)
	if err != nil {
		return err
	}
	if cnt, _ := res.RowsAffected(); cnt == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

type NotificationDetail struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Username  string    `json:"user_username"`
	Topic     string    `json:"topic"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *NotificationRepo) List(ctx context.Context, f NotificationFilter) ([]NotificationDetail, error) {
	b := sq.Select("n.id", "n.user_id", "u.username", "n.topic", "n.body", "n.created_at", "n.updated_at").
		From("notifications n").
		Join("users u ON u.id = n.user_id")
	if f.ID != nil {
		b = b.Where(sq.Eq{"n.id": *f.ID})
	}
	if f.UserID != nil {
		b = b.Where(sq.Eq{"n.user_id": *f.UserID})
	}
	if f.Username != nil {
		b = b.Where(sq.Like{"u.username": contains(*f.Username)})
	}
	if f.Topic != nil {
		b = b.Where(sq.Like{"n.topic": contains(*f.Topic)})
	}
	if f.Body != nil {
		b = b.Where(sq.Like{"n.body": contains(*f.Body)})
	}
	b = f.Created.apply(b, "n.created_at")

	query, args, err := b.OrderBy("n.id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]NotificationDetail, 0)
	for rows.Next() {
		var d NotificationDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.Username, &d.Topic, &d.Body, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
