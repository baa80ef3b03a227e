package application

import (
	"context"
	"fmt"
	"time"

	"github.com/iSnowdy/Frostel/internal/domain/discount"
)

// Quote は予約作成時に確定する不変の価格スナップショット
// 金額はすべて通貨最小単位
type Quote struct {
	BasePrice      int64
	DiscountAmount int64
	TotalPrice     int64
	DiscountID     *string
}

// PriceQuoter は価格スナップショットの解決インターフェース
type PriceQuoter interface {
	Quote(ctx context.Context, scope discount.Scope, targetID string, basePrice int64, asOf time.Time) (*Quote, error)
}

// PricingService は基準価格と適用可能な割引から価格スナップショットを解決する
type PricingService struct {
	discountRepo discount.Repository
}

func NewPricingService(discountRepo discount.Repository) *PricingService {
	return &PricingService{discountRepo: discountRepo}
}

// Quote は指定時点で適用可能な割引のうち1件だけを選択して価格を確定する
// 複数適用可能な場合は割引率が最大のもの、同率なら作成日時が新しいものを選ぶ。
// 割引の加算適用は行わない（決定的・単一値）
func (s *PricingService) Quote(ctx context.Context, scope discount.Scope, targetID string, basePrice int64, asOf time.Time) (*Quote, error) {
	var (
		discounts []*discount.Discount
		err       error
	)
	switch scope {
	case discount.ScopeHotel:
		discounts, err = s.discountRepo.GetActiveForHotel(ctx, targetID, asOf)
	case discount.ScopeFlight:
		discounts, err = s.discountRepo.GetActiveForFlight(ctx, targetID, asOf)
	default:
		return nil, discount.ErrInvalidScope
	}
	if err != nil {
		return nil, fmt.Errorf("適用可能な割引の取得に失敗: %w", err)
	}

	best := selectBestDiscount(discounts, asOf)
	if best == nil {
		return &Quote{BasePrice: basePrice, TotalPrice: basePrice}, nil
	}

	amount := best.AmountOff(basePrice)
	return &Quote{
		BasePrice:      basePrice,
		DiscountAmount: amount,
		TotalPrice:     basePrice - amount,
		DiscountID:     &best.ID,
	}, nil
}

// selectBestDiscount は適用可能な割引から最良の1件を選ぶ
func selectBestDiscount(discounts []*discount.Discount, asOf time.Time) *discount.Discount {
	var best *discount.Discount
	for _, d := range discounts {
		if !d.AppliesAt(asOf) {
			continue
		}
		if best == nil {
			best = d
			continue
		}
		if d.Percentage > best.Percentage {
			best = d
			continue
		}
		if d.Percentage == best.Percentage && d.CreatedAt.After(best.CreatedAt) {
			best = d
		}
	}
	return best
}

// DeactivateExpiredDiscounts は終了日を過ぎた有効な割引を無効化し、件数を返す
// メンテナンスジョブから定期的に呼ばれる。既存スナップショットには影響しない
func (s *PricingService) DeactivateExpiredDiscounts(ctx context.Context, asOf time.Time) (int, error) {
	count, err := s.discountRepo.DeactivateExpired(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("期限切れ割引の無効化に失敗: %w", err)
	}
	return count, nil
}
