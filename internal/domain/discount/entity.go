package discount

import (
	"math"
	"time"
)

// Scope は割引の適用対象を表す
type Scope string

const (
	ScopeHotel  Scope = "hotel"
	ScopeFlight Scope = "flight"
)

// Discount は割引エンティティを表す
// 作成時は有効。終了日を過ぎると明示的または自動的に無効化される。
// 無効化は既に作成済みの価格スナップショットに遡及しない
type Discount struct {
	ID         string
	Name       string
	Percentage float64 // (0, 100)
	Scope      Scope
	StartDate  time.Time
	EndDate    time.Time
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewDiscount は新しい割引を有効状態で作成する
func NewDiscount(name string, percentage float64, scope Scope, startDate, endDate time.Time) *Discount {
	now := time.Now()
	return &Discount{
		Name:       name,
		Percentage: percentage,
		Scope:      scope,
		StartDate:  startDate,
		EndDate:    endDate,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AppliesAt は割引が指定時点で適用可能かを返す
func (d *Discount) AppliesAt(t time.Time) bool {
	if !d.IsActive {
		return false
	}
	return !t.Before(d.StartDate) && !t.After(d.EndDate)
}

// AmountOff は基準価格（通貨最小単位）に対する割引額を返す
// 最小単位への丸めは四捨五入
func (d *Discount) AmountOff(basePrice int64) int64 {
	return int64(math.Round(float64(basePrice) * d.Percentage / 100))
}

// Deactivate は割引を無効化する
func (d *Discount) Deactivate() {
	d.IsActive = false
	d.UpdatedAt = time.Now()
}

// Validate は割引の検証を行う
func (d *Discount) Validate() error {
	if d.Name == "" {
		return ErrNameRequired
	}
	if d.Percentage <= 0 || d.Percentage >= 100 {
		return ErrInvalidPercentage
	}
	if d.Scope != ScopeHotel && d.Scope != ScopeFlight {
		return ErrInvalidScope
	}
	if d.EndDate.Before(d.StartDate) {
		return ErrInvalidValidityWindow
	}
	return nil
}
