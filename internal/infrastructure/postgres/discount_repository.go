package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iSnowdy/Frostel/internal/domain/discount"
)

type discountRow struct {
	ID         string    `db:"id"`
	Code       string    `db:"code"`
	Scope      string    `db:"scope"`
	Percentage float64   `db:"percentage"`
	ValidFrom  time.Time `db:"valid_from"`
	ValidUntil time.Time `db:"valid_until"`
	Active     bool      `db:"active"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *discountRow) toEntity() *discount.Discount {
	return &discount.Discount{
		ID: r.ID, Name: r.Code, Scope: discount.Scope(r.Scope),
		Percentage: r.Percentage, StartDate: r.ValidFrom, EndDate: r.ValidUntil,
		IsActive: r.Active, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

const discountColumns = `id, code, scope, percentage, valid_from, valid_until, active, created_at, updated_at`

type DiscountRepository struct{ db *sqlx.DB }

func NewDiscountRepository(db *sqlx.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

func (r *DiscountRepository) Create(ctx context.Context, d *discount.Discount) error {
	query := `INSERT INTO discounts (code, scope, percentage, valid_from, valid_until, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query,
		d.Name, string(d.Scope), d.Percentage, d.StartDate, d.EndDate,
		d.IsActive, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID); err != nil {
		return fmt.Errorf("割引作成に失敗: %w", err)
	}
	return nil
}

func (r *DiscountRepository) GetByID(ctx context.Context, id string) (*discount.Discount, error) {
	var row discountRow
	query := `SELECT ` + discountColumns + ` FROM discounts WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, discount.ErrDiscountNotFound
		}
		return nil, fmt.Errorf("割引取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

// GetActiveForHotel はホテルに紐付く、その時点で有効な割引をすべて返す
func (r *DiscountRepository) GetActiveForHotel(ctx context.Context, hotelID string, asOf time.Time) ([]*discount.Discount, error) {
	var rows []discountRow
	query := `SELECT d.id, d.code, d.scope, d.percentage, d.valid_from, d.valid_until, d.active, d.created_at, d.updated_at
		FROM discounts d
		JOIN hotel_discounts hd ON hd.discount_id = d.id
		WHERE hd.hotel_id = $1
		  AND d.scope = 'hotel'
		  AND d.active = TRUE
		  AND d.valid_from <= $2
		  AND d.valid_until >= $2
		ORDER BY d.percentage DESC, d.created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, hotelID, asOf); err != nil {
		return nil, fmt.Errorf("ホテル割引取得に失敗: %w", err)
	}
	result := make([]*discount.Discount, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

// GetActiveForFlight はフライトに紐付く、その時点で有効な割引をすべて返す
func (r *DiscountRepository) GetActiveForFlight(ctx context.Context, flightID string, asOf time.Time) ([]*discount.Discount, error) {
	var rows []discountRow
	query := `SELECT d.id, d.code, d.scope, d.percentage, d.valid_from, d.valid_until, d.active, d.created_at, d.updated_at
		FROM discounts d
		JOIN flight_discounts fd ON fd.discount_id = d.id
		WHERE fd.flight_id = $1
		  AND d.scope = 'flight'
		  AND d.active = TRUE
		  AND d.valid_from <= $2
		  AND d.valid_until >= $2
		ORDER BY d.percentage DESC, d.created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, flightID, asOf); err != nil {
		return nil, fmt.Errorf("フライト割引取得に失敗: %w", err)
	}
	result := make([]*discount.Discount, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *DiscountRepository) AttachToHotel(ctx context.Context, discountID, hotelID string) error {
	query := `INSERT INTO hotel_discounts (hotel_id, discount_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, hotelID, discountID); err != nil {
		return fmt.Errorf("ホテルへの割引紐付けに失敗: %w", err)
	}
	return nil
}

func (r *DiscountRepository) AttachToFlight(ctx context.Context, discountID, flightID string) error {
	query := `INSERT INTO flight_discounts (flight_id, discount_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, flightID, discountID); err != nil {
		return fmt.Errorf("フライトへの割引紐付けに失敗: %w", err)
	}
	return nil
}

// DeactivateExpired は有効期限を過ぎた割引を一括で無効化し、件数を返す
func (r *DiscountRepository) DeactivateExpired(ctx context.Context, asOf time.Time) (int, error) {
	query := `UPDATE discounts SET active = FALSE, updated_at = NOW()
		WHERE active = TRUE AND valid_until < $1`
	result, err := r.db.ExecContext(ctx, query, asOf)
	if err != nil {
		return 0, fmt.Errorf("期限切れ割引の無効化に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}

var _ discount.Repository = (*DiscountRepository)(nil)
