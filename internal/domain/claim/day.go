package claim

import (
	"time"
)

const secondsPerDay = 86400

// Day エポック(1970-01-01 UTC)からの経過日数
type Day uint32

// DayOf 時刻が属する日のインデックスを返す
func DayOf(t time.Time) Day {
	secs := t.Unix()
	if secs < 0 {
		return 0
	}
	return Day(secs / secondsPerDay)
}

// Time その日の開始時刻(UTC)を返す
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

// String YYYY-MM-DD 形式の文字列を返す
func (d Day) String() string {
	return d.Time().Format("2006-01-02")
}

// Clock 現在日を返すインターフェース
type Clock interface {
	Today() Day
}

// SystemClock 壁時計に基づくClock
type SystemClock struct{}

// Today 現在日を返す
func (SystemClock) Today() Day {
	return DayOf(time.Now())
}

// FixedClock 固定日を返すClock（テスト用）
type FixedClock Day

// Today 固定日を返す
func (c FixedClock) Today() Day {
	return Day(c)
}
