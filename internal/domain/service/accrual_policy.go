package service

import (
	"errors"

	"ubi-server/internal/domain/claim"
)

// ErrInvalidPolicy 無効なインカムポリシー
var ErrInvalidPolicy = errors.New("invalid accrual policy")

// AccrualPolicy インカム計算のポリシー（デプロイ単位で固定）
type AccrualPolicy struct {
	// ClaimDays 1回の請求で前払いする日数（当日を含む）
	ClaimDays uint32
	// MaxPastClaimDays 遡って支払う最大日数。超過分は失効する
	MaxPastClaimDays uint32
	// EpochDay 新規ウィンドウの初期最終請求日
	EpochDay claim.Day
	// GracePeriod trueの場合、初期最終請求日をGraceDaysだけ後ろにずらす
	GracePeriod bool
	GraceDays   uint32
}

// DefaultAccrualPolicy デフォルトポリシーを返す
func DefaultAccrualPolicy() AccrualPolicy {
	return AccrualPolicy{
		ClaimDays:        1,
		MaxPastClaimDays: 360,
		EpochDay:         18047, // 2019-05-31
		GracePeriod:      false,
		GraceDays:        2,
	}
}

// Validate ポリシーを検証
func (p AccrualPolicy) Validate() error {
	if p.ClaimDays < 1 {
		return errors.Join(ErrInvalidPolicy, errors.New("claim days must be at least 1"))
	}
	return nil
}

// SeedDay 新規ウィンドウの初期最終請求日を返す
func (p AccrualPolicy) SeedDay() claim.Day {
	if p.GracePeriod {
		return p.EpochDay + claim.Day(p.GraceDays)
	}
	return p.EpochDay
}

// AccrualResult インカム計算の結果
type AccrualResult struct {
	// Quantity 付与する最小単位数（0の場合は請求なし）
	Quantity int64
	// GrantedDays Quantityが実際に賄う日数
	GrantedDays uint64
	// LostDays 遡及上限を超えて失効した日数
	LostDays uint32
	// NewLastClaimDay 付与後の最終請求日
	NewLastClaimDay claim.Day
}

// Compute 最終請求日と現在日からインカムを計算する。
// headroomは追加発行可能な最小単位数で、付与量はこれを超えない。
func (p AccrualPolicy) Compute(lastDay, today claim.Day, multiplier, headroom int64) AccrualResult {
	if lastDay >= today {
		return AccrualResult{NewLastClaimDay: lastDay}
	}

	elapsed := uint64(today - lastDay - 1)
	var lost uint64
	if elapsed > uint64(p.MaxPastClaimDays) {
		lost = elapsed - uint64(p.MaxPastClaimDays)
		elapsed = uint64(p.MaxPastClaimDays)
	}
	total := elapsed + uint64(p.ClaimDays)

	if headroom < 0 {
		headroom = 0
	}
	var quantity int64
	// total*multiplier が headroom を超えるかを乗算せずに判定する
	if total > uint64(headroom/multiplier) {
		quantity = headroom
	} else {
		quantity = int64(total) * multiplier
	}

	granted := uint64(quantity / multiplier)
	return AccrualResult{
		Quantity:        quantity,
		GrantedDays:     granted,
		LostDays:        uint32(lost),
		NewLastClaimDay: claim.Day(uint64(lastDay) + lost + granted),
	}
}
