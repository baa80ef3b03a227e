package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iSnowdy/Frostel/internal/application"
	"github.com/iSnowdy/Frostel/internal/domain/booking"
	"github.com/iSnowdy/Frostel/internal/infrastructure/postgres"
)

// seedAgedPendingReservation は created_at を過去にずらした保留中予約を直接作成する
func seedAgedPendingReservation(t *testing.T, f hotelFixture, age string) string {
	t.Helper()
	var id string
	err := testDB.QueryRow(`INSERT INTO reservations
		(reference, user_id, hotel_id, room_id, room_type_id, check_in, check_out, guests,
		 base_price, discount_amount, total_price, status, created_at, updated_at)
		VALUES ($1, 'user-stale', $2, $3, $4, CURRENT_DATE + 30, CURRENT_DATE + 32, 2,
		 30000, 0, 30000, 'pending', NOW() - $5::interval, NOW())
		RETURNING id`,
		booking.NewReference("HB", time.Now()), f.HotelID, f.RoomID, f.RoomTypeID, age,
	).Scan(&id)
	if err != nil {
		t.Fatalf("保留中予約の作成に失敗: %v", err)
	}
	return id
}

func reservationStatus(t *testing.T, id string) string {
	t.Helper()
	var status string
	if err := testDB.Get(&status, `SELECT status FROM reservations WHERE id = $1`, id); err != nil {
		t.Fatalf("予約状態の取得に失敗: %v", err)
	}
	return status
}

// TestE2E_StaleReservationCutoff は放置予約の24時間境界をテスト
// 経過23時間の予約は残り、25時間の予約だけがキャンセルされる
func TestE2E_StaleReservationCutoff(t *testing.T) {
	getTestServer(t)
	ctx := context.Background()
	fixture := seedHotel(t, 15000)

	freshID := seedAgedPendingReservation(t, fixture, "23 hours")
	staleID := seedAgedPendingReservation(t, fixture, "25 hours")

	repo := postgres.NewReservationRepository(testDB)

	t.Run("カットオフより古い予約だけが抽出される", func(t *testing.T) {
		stale, err := repo.ListStalePending(ctx, 24*time.Hour)
		require.NoError(t, err)
		require.Len(t, stale, 1)
		assert.Equal(t, staleID, stale[0].ID)
	})

	t.Run("サービス経由のキャンセルも境界を守る", func(t *testing.T) {
		txm := postgres.NewTxManager(testDB)
		pricing := application.NewPricingService(postgres.NewDiscountRepository(testDB))
		svc := application.NewReservationService(
			txm, repo, postgres.NewRoomRepository(testDB),
			postgres.NewAuditRepository(testDB), pricing, nil,
		)

		count, err := svc.CancelStalePending(ctx, 24*time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		assert.Equal(t, "cancelled", reservationStatus(t, staleID))
		assert.Equal(t, "pending", reservationStatus(t, freshID))
	})
}
