package discount

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscount(t *testing.T) {
	start := time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 30, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name       string
		dcName     string
		percentage float64
		scope      Scope
		start, end time.Time
		wantErr    error
	}{
		{"正常な割引作成", "ブラックフライデー", 25, ScopeHotel, start, end, nil},
		{"割引率0は不正", "無効割引", 0, ScopeHotel, start, end, ErrInvalidPercentage},
		{"割引率100は不正", "全額割引", 100, ScopeHotel, start, end, ErrInvalidPercentage},
		{"名前未指定", "", 25, ScopeHotel, start, end, ErrNameRequired},
		{"不正な適用対象", "謎の割引", 25, Scope("cruise"), start, end, ErrInvalidScope},
		{"終了日が開始日より前", "逆転割引", 25, ScopeFlight, end, start, ErrInvalidValidityWindow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDiscount(tt.dcName, tt.percentage, tt.scope, tt.start, tt.end)
			err := d.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, d.IsActive)
		})
	}
}

func TestDiscount_AppliesAt(t *testing.T) {
	start := time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 30, 23, 59, 59, 0, time.UTC)
	d := NewDiscount("ブラックフライデー", 25, ScopeHotel, start, end)

	assert.True(t, d.AppliesAt(time.Date(2025, 11, 26, 12, 0, 0, 0, time.UTC)))
	assert.True(t, d.AppliesAt(start))
	assert.False(t, d.AppliesAt(start.Add(-time.Second)))
	assert.False(t, d.AppliesAt(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))

	// 無効化後は期間内でも適用不可
	d.Deactivate()
	assert.False(t, d.AppliesAt(time.Date(2025, 11, 26, 12, 0, 0, 0, time.UTC)))
}

func TestDiscount_AmountOff(t *testing.T) {
	d := &Discount{Percentage: 25}
	// $500.00 の25%引き → $125.00
	assert.Equal(t, int64(12500), d.AmountOff(50000))

	// 最小単位への丸めは四捨五入（15 * 10% = 1.5 → 2）
	d.Percentage = 10
	assert.Equal(t, int64(2), d.AmountOff(15))
}

func TestDiscount_AmountOff_Rounding(t *testing.T) {
	d := &Discount{Percentage: 33.33}
	// 9999 * 0.3333 = 3332.6667 → 3333
	assert.Equal(t, int64(3333), d.AmountOff(9999))
}
