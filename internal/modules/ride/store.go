// README: Ride gateway backed by PostgreSQL.
package ride

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ridehub/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const rideColumns = `
	id, org_id, client_id, dispatcher_id, driver_id, assigned_vehicle_id,
	pickup_address, pickup_lat, pickup_lng, dropoff_address, dropoff_lat, dropoff_lng,
	rider_count, pickup_at, notes, estimated_miles,
	status, status_version, cancel_reason, created_at, updated_at`

func (s *Store) CreateRide(ctx context.Context, r *Ride) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO rides (`+rideColumns+`)
		VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16,
			$17, $18, $19, $20, $21
		)`,
		string(r.ID), string(r.OrgID), string(r.ClientID), string(r.DispatcherID),
		toStringPtr(r.DriverID), toStringPtr(r.AssignedVehicleID),
		r.Pickup.Address, r.Pickup.Lat, r.Pickup.Lng,
		r.Dropoff.Address, r.Dropoff.Lat, r.Dropoff.Lng,
		r.RiderCount, r.PickupAt, r.Notes, r.EstimatedMiles,
		string(r.Status), r.StatusVersion, r.CancelReason, r.CreatedAt, r.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *Store) GetRide(ctx context.Context, id types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1`, string(id))

	var r Ride
	var driverID, vehicleID *string
	err := row.Scan(
		&r.ID, &r.OrgID, &r.ClientID, &r.DispatcherID, &driverID, &vehicleID,
		&r.Pickup.Address, &r.Pickup.Lat, &r.Pickup.Lng,
		&r.Dropoff.Address, &r.Dropoff.Lat, &r.Dropoff.Lng,
		&r.RiderCount, &r.PickupAt, &r.Notes, &r.EstimatedMiles,
		&r.Status, &r.StatusVersion, &r.CancelReason, &r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.DriverID = toIDPtr(driverID)
	r.AssignedVehicleID = toIDPtr(vehicleID)
	return &r, nil
}

// execer is satisfied by *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UpdateRideIfStatus applies p only while the row is still in expected.
// Exactly one concurrent caller can observe true for a given transition.
func (s *Store) UpdateRideIfStatus(ctx context.Context, id types.ID, expected Status, p Patch) (bool, error) {
	return updateRideIfStatus(ctx, s.db, id, expected, p)
}

// UpdateRideWithRecord runs the UpdateRideIfStatus predicate and the
// completion record upsert in one transaction. Nothing is written when the
// predicate does not match.
func (s *Store) UpdateRideWithRecord(ctx context.Context, id types.ID, expected Status, p Patch, rec *CompletionRecord) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	applied, err := updateRideIfStatus(ctx, tx, id, expected, p)
	if err != nil || !applied {
		return false, err
	}
	if err := upsertCompletionRecord(ctx, tx, rec); err != nil {
		return false, fmt.Errorf("upsert completion record: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func updateRideIfStatus(ctx context.Context, db execer, id types.ID, expected Status, p Patch) (bool, error) {
	at := p.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	tag, err := db.Exec(ctx, `
		UPDATE rides
		SET status = $1,
			status_version = status_version + 1,
			driver_id = CASE WHEN $2 THEN NULL WHEN $3::text IS NOT NULL THEN $3 ELSE driver_id END,
			assigned_vehicle_id = CASE WHEN $2 THEN NULL WHEN $3::text IS NOT NULL THEN $4 ELSE assigned_vehicle_id END,
			cancel_reason = COALESCE($5, cancel_reason),
			updated_at = $6
		WHERE id = $7 AND status = $8 AND ($9::text IS NULL OR driver_id = $9)`,
		string(p.Status),
		p.ClearAssignment,
		toStringPtr(p.DriverID),
		toStringPtr(p.VehicleID),
		p.CancelReason,
		at,
		string(id),
		string(expected),
		toStringPtr(p.IfDriver),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) OpenRideRequest(ctx context.Context, rr *RideRequest) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		INSERT INTO ride_requests (ride_id, driver_id, org_id, denied, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, $4, $5)
		ON CONFLICT (ride_id, driver_id) DO UPDATE
		SET denied = FALSE, updated_at = EXCLUDED.updated_at
		WHERE ride_requests.denied`,
		string(rr.RideID), string(rr.DriverID), string(rr.OrgID), rr.CreatedAt, rr.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) GetRideRequest(ctx context.Context, rideID, driverID types.ID) (*RideRequest, error) {
	var rr RideRequest
	err := s.db.QueryRow(ctx, `
		SELECT ride_id, driver_id, org_id, denied, created_at, updated_at
		FROM ride_requests
		WHERE ride_id = $1 AND driver_id = $2`,
		string(rideID), string(driverID),
	).Scan(&rr.RideID, &rr.DriverID, &rr.OrgID, &rr.Denied, &rr.CreatedAt, &rr.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rr, nil
}

func (s *Store) ListPendingRequests(ctx context.Context, rideID types.ID) ([]*RideRequest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT ride_id, driver_id, org_id, denied, created_at, updated_at
		FROM ride_requests
		WHERE ride_id = $1 AND NOT denied
		ORDER BY created_at, driver_id`, string(rideID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*RideRequest
	for rows.Next() {
		var rr RideRequest
		if err := rows.Scan(&rr.RideID, &rr.DriverID, &rr.OrgID, &rr.Denied, &rr.CreatedAt, &rr.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rr)
	}
	return out, rows.Err()
}

func (s *Store) MarkDenied(ctx context.Context, rideID types.ID, driverIDs []types.ID) error {
	if len(driverIDs) == 0 {
		return nil
	}
	ids := make([]string, len(driverIDs))
	for i, d := range driverIDs {
		ids[i] = string(d)
	}
	_, err := s.db.Exec(ctx, `
		UPDATE ride_requests
		SET denied = TRUE, updated_at = NOW()
		WHERE ride_id = $1 AND driver_id = ANY($2) AND NOT denied`,
		string(rideID), ids,
	)
	return err
}

func upsertCompletionRecord(ctx context.Context, db execer, rec *CompletionRecord) error {
	_, err := db.Exec(ctx, `
		INSERT INTO completion_records (
			ride_id, actual_start, actual_end, miles_driven, hours,
			donation_amount, donation_currency, reported_by, confirmed_by, confirmed_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (ride_id) DO UPDATE SET
			actual_start = EXCLUDED.actual_start,
			actual_end = EXCLUDED.actual_end,
			miles_driven = EXCLUDED.miles_driven,
			hours = EXCLUDED.hours,
			donation_amount = EXCLUDED.donation_amount,
			donation_currency = EXCLUDED.donation_currency,
			reported_by = EXCLUDED.reported_by,
			confirmed_by = EXCLUDED.confirmed_by,
			confirmed_at = EXCLUDED.confirmed_at,
			updated_at = EXCLUDED.updated_at`,
		string(rec.RideID), rec.ActualStart, rec.ActualEnd, rec.MilesDriven, rec.Hours,
		rec.DonationAmount.Amount, rec.DonationAmount.Currency,
		string(rec.ReportedBy), toStringPtr(rec.ConfirmedBy), rec.ConfirmedAt,
		rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

func (s *Store) GetCompletionRecord(ctx context.Context, rideID types.ID) (*CompletionRecord, error) {
	var rec CompletionRecord
	var confirmedBy *string
	err := s.db.QueryRow(ctx, `
		SELECT ride_id, actual_start, actual_end, miles_driven, hours,
		       donation_amount, donation_currency, reported_by, confirmed_by, confirmed_at,
		       created_at, updated_at
		FROM completion_records
		WHERE ride_id = $1`, string(rideID),
	).Scan(
		&rec.RideID, &rec.ActualStart, &rec.ActualEnd, &rec.MilesDriven, &rec.Hours,
		&rec.DonationAmount.Amount, &rec.DonationAmount.Currency, &rec.ReportedBy, &confirmedBy, &rec.ConfirmedAt,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.ConfirmedBy = toIDPtr(confirmedBy)
	return &rec, nil
}

func toStringPtr(id *types.ID) *string {
	if id == nil {
		return nil
	}
	v := string(*id)
	return &v
}

func toIDPtr(s *string) *types.ID {
	if s == nil {
		return nil
	}
	id := types.ID(*s)
	return &id
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
