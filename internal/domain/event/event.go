package event

import (
	"context"
	"fmt"
	"strings"

	"ubi-server/internal/domain/asset"
	"ubi-server/internal/domain/claim"
)

// ClaimSettled インカム請求の確定イベント
type ClaimSettled struct {
	Claimant     string
	Quantity     asset.Asset
	NextClaimDay claim.Day // 次に請求可能になる日 (newLastClaimDay + 1)
	LostDays     uint32
}

// Memo ログ用メモを返す
//
//	"[UBI] +1.0000 UBI (next: 2024-01-02)"
//	"[UBI] +360.0000 UBI (next: 2024-01-02) (lost: 39 days of income)"
func (e ClaimSettled) Memo() string {
	var b strings.Builder
	b.WriteString("[UBI] +")
	b.WriteString(e.Quantity.String())
	b.WriteString(" (next: ")
	b.WriteString(e.NextClaimDay.String())
	b.WriteString(")")
	if e.LostDays > 0 {
		fmt.Fprintf(&b, " (lost: %d days of income)", e.LostDays)
	}
	return b.String()
}

// Emitter イベント発行インターフェース。
// 呼び出し元の操作と同じ原子単位の中で呼ばれ、エラーを返すと操作全体が取り消される。
type Emitter interface {
	EmitClaimSettled(ctx context.Context, e ClaimSettled) error
}

// Recorder 発行されたイベントを保持するEmitter（テスト用）
type Recorder struct {
	Events []ClaimSettled
}

// EmitClaimSettled イベントを保持
func (r *Recorder) EmitClaimSettled(_ context.Context, e ClaimSettled) error {
	r.Events = append(r.Events, e)
	return nil
}
