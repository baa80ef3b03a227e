package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iSnowdy/Frostel/internal/domain/booking"
	"github.com/iSnowdy/Frostel/internal/domain/reservation"
	"github.com/iSnowdy/Frostel/internal/domain/transaction"
)

type reservationRow struct {
	ID             string    `db:"id"`
	Reference      string    `db:"reference"`
	UserID         string    `db:"user_id"`
	HotelID        string    `db:"hotel_id"`
	RoomID         string    `db:"room_id"`
	RoomTypeID     string    `db:"room_type_id"`
	CheckIn        time.Time `db:"check_in"`
	CheckOut       time.Time `db:"check_out"`
	Guests         int       `db:"guests"`
	BasePrice      int64     `db:"base_price"`
	DiscountAmount int64     `db:"discount_amount"`
	TotalPrice     int64     `db:"total_price"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r *reservationRow) toEntity() *reservation.Reservation {
	return &reservation.Reservation{
		ID: r.ID, Reference: r.Reference, UserID: r.UserID,
		HotelID: r.HotelID, RoomID: r.RoomID, RoomTypeID: r.RoomTypeID,
		CheckIn: r.CheckIn, CheckOut: r.CheckOut, Guests: r.Guests,
		BasePrice: r.BasePrice, DiscountAmount: r.DiscountAmount, TotalPrice: r.TotalPrice,
		Status: booking.Status(r.Status), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

const reservationColumns = `id, reference, user_id, hotel_id, room_id, room_type_id, check_in, check_out, guests, base_price, discount_amount, total_price, status, created_at, updated_at`

// activeReservationStatuses は部屋を占有しているとみなす状態
// キャンセル済み・チェックアウト済みは部屋を解放している
const activeReservationStatuses = `('pending', 'confirmed', 'checked_in')`

type ReservationRepository struct{ db *sqlx.DB }

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errTxRequired
	}
	query := `INSERT INTO reservations (reference, user_id, hotel_id, room_id, room_type_id, check_in, check_out, guests, base_price, discount_amount, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query,
		res.Reference, res.UserID, res.HotelID, res.RoomID, res.RoomTypeID,
		res.CheckIn, res.CheckOut, res.Guests,
		res.BasePrice, res.DiscountAmount, res.TotalPrice,
		string(res.Status), res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID); err != nil {
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetForUpdate は予約を FOR UPDATE で取得し、決済など他の処理と
// 同一トランザクション内で予約行を固定する
func (r *ReservationRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*reservation.Reservation, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, errTxRequired
	}
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	if err := sqlxTx.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ReservationRepository) GetByReference(ctx context.Context, reference string) (*reservation.Reservation, error) {
	var row reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE reference = $1`
	if err := r.db.GetContext(ctx, &row, query, reference); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

// UpdateStatus は状態を条件付きで更新する
// WHERE 句で現在状態を固定することで、同一予約への並行遷移は一方だけが適用される
func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, res *reservation.Reservation, expected booking.Status) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errTxRequired
	}
	query := `UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	result, err := sqlxTx.ExecContext(ctx, query, string(res.Status), res.UpdatedAt, res.ID, string(expected))
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return booking.ErrConcurrentConflict
	}
	return nil
}

// HasOverlap は [checkIn, checkOut) と重なるアクティブな予約の有無を返す
func (r *ReservationRepository) HasOverlap(ctx context.Context, tx transaction.Tx, roomID string, checkIn, checkOut time.Time) (bool, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return false, errTxRequired
	}
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM reservations
		WHERE room_id = $1
		  AND status IN ` + activeReservationStatuses + `
		  AND check_in < $3
		  AND check_out > $2
	)`
	if err := sqlxTx.QueryRowContext(ctx, query, roomID, checkIn, checkOut).Scan(&exists); err != nil {
		return false, fmt.Errorf("重複予約の確認に失敗: %w", err)
	}
	return exists, nil
}

func (r *ReservationRepository) ListStalePending(ctx context.Context, olderThan time.Duration) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE status = 'pending' AND created_at < $1 ORDER BY created_at`
	cutoff := time.Now().Add(-olderThan)
	if err := r.db.SelectContext(ctx, &rows, query, cutoff); err != nil {
		return nil, fmt.Errorf("期限切れ予約取得に失敗: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

var _ reservation.Repository = (*ReservationRepository)(nil)
