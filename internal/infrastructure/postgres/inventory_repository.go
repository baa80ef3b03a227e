package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iSnowdy/Frostel/internal/domain/inventory"
	"github.com/iSnowdy/Frostel/internal/domain/transaction"
)

type roomRow struct {
	ID            string    `db:"id"`
	HotelID       string    `db:"hotel_id"`
	RoomTypeID    string    `db:"room_type_id"`
	RoomNumber    string    `db:"room_number"`
	Status        string    `db:"status"`
	PricePerNight int64     `db:"price_per_night"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r *roomRow) toEntity() *inventory.Room {
	return &inventory.Room{
		ID: r.ID, HotelID: r.HotelID, RoomTypeID: r.RoomTypeID,
		RoomNumber: r.RoomNumber, Status: inventory.RoomStatus(r.Status),
		PricePerNight: r.PricePerNight, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

const roomColumns = `id, hotel_id, room_type_id, room_number, status, price_per_night, created_at, updated_at`

type RoomRepository struct{ db *sqlx.DB }

func NewRoomRepository(db *sqlx.DB) *RoomRepository { return &RoomRepository{db: db} }

func (r *RoomRepository) GetByID(ctx context.Context, id string) (*inventory.Room, error) {
	var row roomRow
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.ErrRoomNotFound
		}
		return nil, fmt.Errorf("部屋取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetForUpdate は部屋を FOR UPDATE で取得し、同一部屋への並行予約を
// トランザクション内で直列化する
func (r *RoomRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*inventory.Room, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, errTxRequired
	}
	var row roomRow
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1 FOR UPDATE`
	if err := sqlxTx.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.ErrRoomNotFound
		}
		return nil, fmt.Errorf("部屋取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *RoomRepository) UpdateStatus(ctx context.Context, id string, status inventory.RoomStatus) error {
	query := `UPDATE rooms SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("部屋状態更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return inventory.ErrRoomNotFound
	}
	return nil
}

var _ inventory.RoomRepository = (*RoomRepository)(nil)

type flightClassRow struct {
	ID             string    `db:"id"`
	FlightID       string    `db:"flight_id"`
	ClassName      string    `db:"class_name"`
	TotalSeats     int       `db:"total_seats"`
	AvailableSeats int       `db:"available_seats"`
	SeatPrice      int64     `db:"seat_price"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r *flightClassRow) toEntity() *inventory.FlightClass {
	return &inventory.FlightClass{
		ID: r.ID, FlightID: r.FlightID, ClassName: r.ClassName,
		TotalSeats: r.TotalSeats, AvailableSeats: r.AvailableSeats,
		SeatPrice: r.SeatPrice, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

const flightClassColumns = `id, flight_id, class_name, total_seats, available_seats, seat_price, created_at, updated_at`

type FlightClassRepository struct{ db *sqlx.DB }

func NewFlightClassRepository(db *sqlx.DB) *FlightClassRepository {
	return &FlightClassRepository{db: db}
}

func (r *FlightClassRepository) GetByID(ctx context.Context, id string) (*inventory.FlightClass, error) {
	var row flightClassRow
	query := `SELECT ` + flightClassColumns + ` FROM flight_classes WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inventory.ErrFlightClassNotFound
		}
		return nil, fmt.Errorf("搭乗クラス取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// ReserveSeat は条件付きデクリメントで空席を1つ確保する
// 空席がなければ行は更新されず ErrInsufficientInventory を返すため、
// 残り1席を争う並行リクエストは一方だけが成功する
func (r *FlightClassRepository) ReserveSeat(ctx context.Context, tx transaction.Tx, id string) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errTxRequired
	}
	query := `UPDATE flight_classes SET available_seats = available_seats - 1, updated_at = NOW()
		WHERE id = $1 AND available_seats > 0`
	result, err := sqlxTx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("座席確保に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return inventory.ErrInsufficientInventory
	}
	return nil
}

// ReleaseSeat は座席を1つ解放する
// LEAST で総座席数を上限とし、二重解放でも在庫が水増しされない
func (r *FlightClassRepository) ReleaseSeat(ctx context.Context, tx transaction.Tx, id string) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return errTxRequired
	}
	query := `UPDATE flight_classes SET available_seats = LEAST(available_seats + 1, total_seats), updated_at = NOW()
		WHERE id = $1`
	result, err := sqlxTx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("座席解放に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return inventory.ErrFlightClassNotFound
	}
	return nil
}

func (r *FlightClassRepository) CountAvailable(ctx context.Context, id string) (int, error) {
	var count int
	query := `SELECT available_seats FROM flight_classes WHERE id = $1`
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, inventory.ErrFlightClassNotFound
		}
		return 0, fmt.Errorf("空席数取得に失敗: %w", err)
	}
	return count, nil
}

var _ inventory.FlightClassRepository = (*FlightClassRepository)(nil)
