package order

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DraftRepo хранит черновики в Postgres (order_drafts.payload) как непрозрачный JSON.
type DraftRepo struct {
	pool *pgxpool.Pool
}

func NewDraftRepo(pool *pgxpool.Pool) *DraftRepo { return &DraftRepo{pool: pool} }

// Get возвращает сохранённый блоб; если черновика нет, (nil, nil).
func (r *DraftRepo) Get(ctx context.Context, chatID int64) ([]byte, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT payload FROM order_drafts WHERE chat_id = $1`, chatID).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return raw, err
}

func (r *DraftRepo) Put(ctx context.Context, chatID int64, raw []byte) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO order_drafts (chat_id, payload, updated_at)
		VALUES ($1,$2,now())
		ON CONFLICT (chat_id) DO UPDATE SET
		  payload=$2, updated_at=now()
	`, chatID, raw)
	return err
}

func (r *DraftRepo) Delete(ctx context.Context, chatID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM order_drafts WHERE chat_id = $1`, chatID)
	return err
}
