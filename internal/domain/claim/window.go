package claim

// Window アカウント・通貨ごとの請求ウィンドウ
type Window struct {
	owner        string
	symbolCode   string
	lastClaimDay Day
}

// NewWindow 新しいWindowを作成
func NewWindow(owner, symbolCode string, lastClaimDay Day) *Window {
	return &Window{
		owner:        owner,
		symbolCode:   symbolCode,
		lastClaimDay: lastClaimDay,
	}
}

// Owner 所有者を返す
func (w *Window) Owner() string {
	return w.owner
}

// SymbolCode シンボルコードを返す
func (w *Window) SymbolCode() string {
	return w.symbolCode
}

// LastClaimDay 最終請求日を返す
func (w *Window) LastClaimDay() Day {
	return w.lastClaimDay
}

// NextClaimDay 次に請求可能になる日を返す
func (w *Window) NextClaimDay() Day {
	return w.lastClaimDay + 1
}

// Advance 最終請求日を進める
func (w *Window) Advance(day Day) error {
	if day < w.lastClaimDay {
		return ErrNonMonotonic
	}
	w.lastClaimDay = day
	return nil
}

// SettledThrough 指定日までの請求が完了しているか（close不可の判定に使用）
func (w *Window) SettledThrough(today Day) bool {
	return w.lastClaimDay >= today
}
