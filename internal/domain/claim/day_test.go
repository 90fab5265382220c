package claim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDay_String(t *testing.T) {
	tests := []struct {
		name string
		day  Day
		want string
	}{
		{name: "正常系: エポック", day: 0, want: "1970-01-01"},
		{name: "正常系: 初期シード日", day: 18047, want: "2019-05-31"},
		{name: "正常系: 平年の3月1日", day: 19417, want: "2023-03-01"},
		{name: "正常系: うるう日", day: 19782, want: "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.day.String())
		})
	}
}

func TestDayOf(t *testing.T) {
	assert.Equal(t, Day(18047), DayOf(time.Date(2019, 5, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Day(18047), DayOf(time.Date(2019, 5, 31, 23, 59, 59, 0, time.UTC)))
	assert.Equal(t, Day(18048), DayOf(time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Day(0), DayOf(time.Unix(-10, 0)))
	assert.Equal(t, Day(42), FixedClock(42).Today())
}
