package catalog

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Load читает эталонный каталог. Если каталог ещё ни разу не сохраняли, (nil, nil).
func (r *Repo) Load(ctx context.Context) (*Snapshot, error) {
	var s Snapshot
	row := r.pool.QueryRow(ctx, `SELECT subdivision, loaded_at FROM catalog_meta WHERE id = 1`)
	if err := row.Scan(&s.Subdivision, &s.LoadedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var err error
	if s.Mechanics, err = r.listMechanics(ctx); err != nil {
		return nil, err
	}
	if s.Materials, err = r.listMaterials(ctx); err != nil {
		return nil, err
	}
	if s.Services, err = r.listServices(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) listMechanics(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM mechanics ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repo) listMaterials(ctx context.Context) ([]Material, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price
		FROM materials
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Material
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.ID, &m.Name, &m.Price); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) listServices(ctx context.Context) ([]Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price, radius_kind, radius_min, radius_max,
		       category, low_profile, run_flat, family
		FROM services
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Service
	for rows.Next() {
		var (
			s    Service
			kind int16
		)
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Price,
			&kind,
			&s.Radius.Min,
			&s.Radius.Max,
			&s.Category,
			&s.LowProfile,
			&s.RunFlat,
			&s.Family,
		); err != nil {
			return nil, err
		}
		s.Radius.Kind = RadiusKind(kind)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Replace подменяет каталог целиком в одной транзакции: либо новый снимок, либо старый.
func (r *Repo) Replace(ctx context.Context, s Snapshot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, q := range []string{`DELETE FROM mechanics`, `DELETE FROM materials`, `DELETE FROM services`} {
		if _, err = tx.Exec(ctx, q); err != nil {
			return err
		}
	}

	for i, name := range s.Mechanics {
		if _, err = tx.Exec(ctx, `
			INSERT INTO mechanics (name, position) VALUES ($1,$2)
		`, name, i); err != nil {
			return err
		}
	}
	for i, m := range s.Materials {
		if _, err = tx.Exec(ctx, `
			INSERT INTO materials (id, name, price, position) VALUES ($1,$2,$3,$4)
		`, string(m.ID), m.Name, m.Price, i); err != nil {
			return err
		}
	}
	for i, sv := range s.Services {
		if _, err = tx.Exec(ctx, `
			INSERT INTO services
			(id, name, price, radius_kind, radius_min, radius_max, category, low_profile, run_flat, family, position)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`, string(sv.ID), sv.Name, sv.Price, int16(sv.Radius.Kind), sv.Radius.Min, sv.Radius.Max,
			string(sv.Category), sv.LowProfile, sv.RunFlat, string(sv.Family), i); err != nil {
			return err
		}
	}

	loadedAt := s.LoadedAt
	if loadedAt.IsZero() {
		loadedAt = time.Now()
	}
	if _, err = tx.Exec(ctx, `
		INSERT INTO catalog_meta (id, subdivision, loaded_at) VALUES (1,$1,$2)
		ON CONFLICT (id) DO UPDATE SET subdivision=$1, loaded_at=$2
	`, s.Subdivision, loadedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
