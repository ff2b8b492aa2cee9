package order

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

// Repo история отправленных заказов.
type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, chatID int64, subdivision string, d Draft, total float64, status string) (int64, error) {
	pb, err := json.Marshal(d)
	if err != nil {
		return 0, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO orders (chat_id, subdivision, total, payload, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, chatID, subdivision, total, pb, status)
	var id int64
	return id, row.Scan(&id)
}

// ListSince заказы чата начиная с момента since, новые первыми.
func (r *Repo) ListSince(ctx context.Context, chatID int64, since time.Time) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, chat_id, subdivision, total, payload, status, created_at
		FROM orders
		WHERE chat_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
	`, chatID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var (
			o   Order
			raw []byte
		)
		if err := rows.Scan(&o.ID, &o.ChatID, &o.Subdivision, &o.Total, &raw, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Draft, _ = DecodeDraft(raw)
		out = append(out, o)
	}
	return out, rows.Err()
}
