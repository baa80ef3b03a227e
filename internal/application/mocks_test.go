package application

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"

	"github.com/iSnowdy/Frostel/internal/domain/audit"
	"github.com/iSnowdy/Frostel/internal/domain/booking"
	"github.com/iSnowdy/Frostel/internal/domain/discount"
	"github.com/iSnowdy/Frostel/internal/domain/flight"
	"github.com/iSnowdy/Frostel/internal/domain/inventory"
	"github.com/iSnowdy/Frostel/internal/domain/payment"
	"github.com/iSnowdy/Frostel/internal/domain/reservation"
	"github.com/iSnowdy/Frostel/internal/domain/transaction"
	"github.com/iSnowdy/Frostel/internal/pkg/metrics"
)

// setupTestMetrics は独立レジストリのメトリクスを差し込み、終了時に元へ戻す
func setupTestMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()
	prev := metrics.Get()
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	metrics.Set(m)
	t.Cleanup(func() { metrics.Set(prev) })
	return m
}

// MockTx はトランザクションのモック
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	return m.Called().Error(0)
}

func (m *MockTx) Rollback() error {
	return m.Called().Error(0)
}

// MockTxManager はトランザクションマネージャのモック
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// newMockTxManager はコミット可能なトランザクションを返すマネージャを作る
func newMockTxManager() (*MockTxManager, *MockTx) {
	tx := new(MockTx)
	tx.On("Commit").Return(nil).Maybe()
	tx.On("Rollback").Return(nil).Maybe()

	txm := new(MockTxManager)
	txm.On("Begin", mock.Anything).Return(tx, nil).Maybe()
	return txm, tx
}

// MockReservationRepository はホテル予約リポジトリのモック
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, tx transaction.Tx, r *reservation.Reservation) error {
	return m.Called(ctx, tx, r).Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*reservation.Reservation, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByReference(ctx context.Context, reference string) (*reservation.Reservation, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockReservationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, r *reservation.Reservation, expected booking.Status) error {
	return m.Called(ctx, tx, r, expected).Error(0)
}

func (m *MockReservationRepository) HasOverlap(ctx context.Context, tx transaction.Tx, roomID string, checkIn, checkOut time.Time) (bool, error) {
	args := m.Called(ctx, tx, roomID, checkIn, checkOut)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) ListStalePending(ctx context.Context, olderThan time.Duration) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

// MockFlightRepository はフライト予約リポジトリのモック
type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Create(ctx context.Context, tx transaction.Tx, b *flight.Booking) error {
	return m.Called(ctx, tx, b).Error(0)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id string) (*flight.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flight.Booking), args.Error(1)
}

func (m *MockFlightRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*flight.Booking, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flight.Booking), args.Error(1)
}

func (m *MockFlightRepository) GetByReference(ctx context.Context, reference string) (*flight.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flight.Booking), args.Error(1)
}

func (m *MockFlightRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*flight.Booking, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*flight.Booking), args.Error(1)
}

func (m *MockFlightRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, b *flight.Booking, expected booking.Status) error {
	return m.Called(ctx, tx, b, expected).Error(0)
}

func (m *MockFlightRepository) ListStalePending(ctx context.Context, olderThan time.Duration) ([]*flight.Booking, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*flight.Booking), args.Error(1)
}

// MockRoomRepository は部屋在庫リポジトリのモック
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id string) (*inventory.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Room), args.Error(1)
}

func (m *MockRoomRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*inventory.Room, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Room), args.Error(1)
}

func (m *MockRoomRepository) UpdateStatus(ctx context.Context, id string, status inventory.RoomStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

// MockFlightClassRepository は搭乗クラス在庫リポジトリのモック
type MockFlightClassRepository struct {
	mock.Mock
}

func (m *MockFlightClassRepository) GetByID(ctx context.Context, id string) (*inventory.FlightClass, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.FlightClass), args.Error(1)
}

func (m *MockFlightClassRepository) ReserveSeat(ctx context.Context, tx transaction.Tx, id string) error {
	return m.Called(ctx, tx, id).Error(0)
}

func (m *MockFlightClassRepository) ReleaseSeat(ctx context.Context, tx transaction.Tx, id string) error {
	return m.Called(ctx, tx, id).Error(0)
}

func (m *MockFlightClassRepository) CountAvailable(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

// MockDiscountRepository は割引リポジトリのモック
type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) Create(ctx context.Context, d *discount.Discount) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDiscountRepository) GetByID(ctx context.Context, id string) (*discount.Discount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discount.Discount), args.Error(1)
}

func (m *MockDiscountRepository) GetActiveForHotel(ctx context.Context, hotelID string, asOf time.Time) ([]*discount.Discount, error) {
	args := m.Called(ctx, hotelID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*discount.Discount), args.Error(1)
}

func (m *MockDiscountRepository) GetActiveForFlight(ctx context.Context, flightID string, asOf time.Time) ([]*discount.Discount, error) {
	args := m.Called(ctx, flightID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*discount.Discount), args.Error(1)
}

func (m *MockDiscountRepository) AttachToHotel(ctx context.Context, discountID, hotelID string) error {
	return m.Called(ctx, discountID, hotelID).Error(0)
}

func (m *MockDiscountRepository) AttachToFlight(ctx context.Context, discountID, flightID string) error {
	return m.Called(ctx, discountID, flightID).Error(0)
}

func (m *MockDiscountRepository) DeactivateExpired(ctx context.Context, asOf time.Time) (int, error) {
	args := m.Called(ctx, asOf)
	return args.Int(0), args.Error(1)
}

// MockPaymentRepository は決済リポジトリのモック
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, tx transaction.Tx, p *payment.Payment) error {
	return m.Called(ctx, tx, p).Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*payment.Payment, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, p *payment.Payment, expected payment.Status) error {
	return m.Called(ctx, tx, p, expected).Error(0)
}

// MockAuditRepository は監査ログリポジトリのモック
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Insert(ctx context.Context, tx transaction.Tx, e *audit.Entry) error {
	return m.Called(ctx, tx, e).Error(0)
}

func (m *MockAuditRepository) ListByRecord(ctx context.Context, tableName, recordID string, limit, offset int) ([]*audit.Entry, error) {
	args := m.Called(ctx, tableName, recordID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Entry), args.Error(1)
}

func (m *MockAuditRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*audit.Entry, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Entry), args.Error(1)
}

func (m *MockAuditRepository) ListByTimeRange(ctx context.Context, from, to time.Time, limit, offset int) ([]*audit.Entry, error) {
	args := m.Called(ctx, from, to, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Entry), args.Error(1)
}

func (m *MockAuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockPriceQuoter は価格スナップショット解決のモック
type MockPriceQuoter struct {
	mock.Mock
}

func (m *MockPriceQuoter) Quote(ctx context.Context, scope discount.Scope, targetID string, basePrice int64, asOf time.Time) (*Quote, error) {
	args := m.Called(ctx, scope, targetID, basePrice, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Quote), args.Error(1)
}
