package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iSnowdy/Frostel/internal/domain/booking"
	"github.com/iSnowdy/Frostel/internal/domain/flight"
	"github.com/iSnowdy/Frostel/internal/domain/transaction"
)

type flightBookingRow struct {
	ID             string    `db:"id"`
	Reference      string    `db:"reference"`
	UserID         string    `db:"user_id"`
	FlightID       string    `db:"flight_id"`
	FlightClassID  string    `db:"flight_class_id"`
	PassengerName  string    `db:"passenger_name"`
	PassengerEmail string    `db:"passenger_email"`
	BasePrice      int64     `db:"base_price"`
	DiscountAmount int64     `db:"discount_amount"`
	TotalPrice     int64     `db:"total_price"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r *flightBookingRow) toEntity() *flight.Booking {
	return &flight.Booking{
		ID: r.ID, Reference: r.Reference, UserID: r.UserID,
		FlightID: r.FlightID, FlightClassID: r.FlightClassID,
		PassengerName: r.PassengerName, PassengerEmail: r.PassengerEmail,
		BasePrice: r.BasePrice, DiscountAmount: r.DiscountAmount, TotalPrice: r.TotalPrice,
		Status: booking.Status(r.Status), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

const flightBookingColumns = `id, reference, user_id, flight_id, flight_class_id, passenger_name, passenger_email, base_price, discount_amount, total_price, status, created_at, updated_at`

type FlightBookingRepository struct{ db *sqlx.DB }

func NewFlightBookingRepository(db *sqlx.DB) *FlightBookingRepository {
	return &FlightBookingRepository{db: db}
}

func (r *FlightBookingRepository) Create(ctx context.Context, tx transaction.Tx, b *flight.Booking) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errTxRequired
	}
	query := `INSERT INTO flight_bookings (reference, user_id, flight_id, flight_class_id, passenger_name, passenger_email, base_price, discount_amount, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		b.Reference, b.UserID, b.FlightID, b.FlightClassID,
		b.PassengerName, b.PassengerEmail,
		b.BasePrice, b.DiscountAmount, b.TotalPrice,
		string(b.Status), b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID); err != nil {
		return fmt.Errorf("フライト予約作成に失敗: %w", err)
	}
	return nil
}

func (r *FlightBookingRepository) GetByID(ctx context.Context, id string) (*flight.Booking, error) {
	var row flightBookingRow
	query := `SELECT ` + flightBookingColumns + ` FROM flight_bookings WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, flight.ErrBookingNotFound
		}
		return nil, fmt.Errorf("フライト予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetForUpdate は予約を FOR UPDATE で取得し、決済など他の処理と
// 同一トランザクション内で予約行を固定する
func (r *FlightBookingRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*flight.Booking, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, errTxRequired
	}
	var row flightBookingRow
	query := `SELECT ` + flightBookingColumns + ` FROM flight_bookings WHERE id = $1 FOR UPDATE`
	if err := sqlxTx.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, flight.ErrBookingNotFound
		}
		return nil, fmt.Errorf("フライト予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *FlightBookingRepository) GetByReference(ctx context.Context, reference string) (*flight.Booking, error) {
	var row flightBookingRow
	query := `SELECT ` + flightBookingColumns + ` FROM flight_bookings WHERE reference = $1`
	if err := r.db.GetContext(ctx, &row, query, reference); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, flight.ErrBookingNotFound
		}
		return nil, fmt.Errorf("フライト予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *FlightBookingRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*flight.Booking, error) {
	var rows []flightBookingRow
	query := `SELECT ` + flightBookingColumns + ` FROM flight_bookings WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("フライト予約一覧取得に失敗: %w", err)
	}
	result := make([]*flight.Booking, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *FlightBookingRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, b *flight.Booking, expected booking.Status) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errTxRequired
	}
	query := `UPDATE flight_bookings SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := sqlxTx.ExecContext(ctx, query, string(b.Status), b.UpdatedAt, b.ID, string(expected))
	if err != nil {
		return fmt.Errorf("フライト予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return booking.ErrConcurrentConflict
	}
	return nil
}

func (r *FlightBookingRepository) ListStalePending(ctx context.Context, olderThan time.Duration) ([]*flight.Booking, error) {
	var rows []flightBookingRow
	query := `SELECT ` + flightBookingColumns + ` FROM flight_bookings WHERE status = 'pending' AND created_at < $1 ORDER BY created_at`
	cutoff := time.Now().Add(-olderThan)
	if err := r.db.SelectContext(ctx, &rows, query, cutoff); err != nil {
		return nil, fmt.Errorf("期限切れフライト予約取得に失敗: %w", err)
	}
	result := make([]*flight.Booking, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

var _ flight.Repository = (*FlightBookingRepository)(nil)
