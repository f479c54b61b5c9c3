// README: Vehicle store backed by PostgreSQL.
package vehicle

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ridehub/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, v *Vehicle) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO vehicles (id, owner_driver_id, label, active, non_driver_seats, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		string(v.ID), string(v.OwnerDriverID), v.Label, v.Active, v.NonDriverSeats, v.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Vehicle, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, owner_driver_id, label, active, non_driver_seats, created_at
		FROM vehicles
		WHERE id = $1`, string(id),
	)
	var v Vehicle
	err := row.Scan(&v.ID, &v.OwnerDriverID, &v.Label, &v.Active, &v.NonDriverSeats, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) ListByOwner(ctx context.Context, driverID types.ID) ([]*Vehicle, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, owner_driver_id, label, active, non_driver_seats, created_at
		FROM vehicles
		WHERE owner_driver_id = $1
		ORDER BY created_at`, string(driverID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.OwnerDriverID, &v.Label, &v.Active, &v.NonDriverSeats, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

// Activate makes id the driver's only active vehicle. Siblings are
// deactivated in the same transaction.
func (s *Store) Activate(ctx context.Context, driverID, id types.ID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		UPDATE vehicles SET active = FALSE
		WHERE owner_driver_id = $1 AND id <> $2`,
		string(driverID), string(id),
	); err != nil {
		return fmt.Errorf("deactivate siblings: %w", err)
	}
	tag, err := tx.Exec(ctx, `
		UPDATE vehicles SET active = TRUE
		WHERE owner_driver_id = $1 AND id = $2`,
		string(driverID), string(id),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}
