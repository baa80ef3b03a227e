package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iSnowdy/Frostel/internal/domain/booking"
	"github.com/iSnowdy/Frostel/internal/domain/payment"
	"github.com/iSnowdy/Frostel/internal/domain/transaction"
)

type paymentRow struct {
	ID              string         `db:"id"`
	Reference       string         `db:"reference"`
	UserID          string         `db:"user_id"`
	BookingType     string         `db:"booking_type"`
	ReservationID   sql.NullString `db:"reservation_id"`
	FlightBookingID sql.NullString `db:"flight_booking_id"`
	Amount          int64          `db:"amount"`
	Status          string         `db:"status"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r *paymentRow) toEntity() *payment.Payment {
	p := &payment.Payment{
		ID: r.ID, Reference: r.Reference, UserID: r.UserID,
		BookingType: payment.BookingType(r.BookingType),
		Amount:      r.Amount, Status: payment.Status(r.Status),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
	if r.ReservationID.Valid {
		v := r.ReservationID.String
		p.ReservationID = &v
	}
	if r.FlightBookingID.Valid {
		v := r.FlightBookingID.String
		p.FlightBookingID = &v
	}
	return p
}

const paymentColumns = `id, reference, user_id, booking_type, reservation_id, flight_booking_id, amount, status, created_at, updated_at`

type PaymentRepository struct{ db *sqlx.DB }

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, tx transaction.Tx, p *payment.Payment) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errTxRequired
	}
	query := `INSERT INTO payments (reference, user_id, booking_type, reservation_id, flight_booking_id, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		p.Reference, p.UserID, string(p.BookingType),
		p.ReservationID, p.FlightBookingID,
		p.Amount, string(p.Status), p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID); err != nil {
		return fmt.Errorf("決済記録に失敗: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*payment.Payment, error) {
	var row paymentRow
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("決済取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *PaymentRepository) GetByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	var row paymentRow
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE reference = $1`
	if err := r.db.GetContext(ctx, &row, query, reference); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("決済取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*payment.Payment, error) {
	var rows []paymentRow
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("決済一覧取得に失敗: %w", err)
	}
	result := make([]*payment.Payment, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, p *payment.Payment, expected payment.Status) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errTxRequired
	}
	query := `UPDATE payments SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := sqlxTx.ExecContext(ctx, query, string(p.Status), p.UpdatedAt, p.ID, string(expected))
	if err != nil {
		return fmt.Errorf("決済更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return booking.ErrConcurrentConflict
	}
	return nil
}

var _ payment.Repository = (*PaymentRepository)(nil)
