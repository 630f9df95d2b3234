package schedule

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2010-01-06 is a Wednesday.
var testNow = time.Date(2010, 1, 6, 14, 16, 0, 0, time.UTC)

type fixedSource int

func (f fixedSource) IntN(n int) int { return min(int(f), n-1) }

func at(h, m, s int) *AtTime { return &AtTime{Hour: h, Minute: m, Second: s} }

func TestNext(t *testing.T) {
	newYork := mustLocation(t, "America/New_York")
	kolkata := mustLocation(t, "Asia/Kolkata")

	tests := []struct {
		name string
		iv   Interval
		want time.Time
	}{
		{"every second", Interval{Unit: Second, Every: 1}, time.Date(2010, 1, 6, 14, 16, 1, 0, time.UTC)},
		{"every minute", Interval{Unit: Minute, Every: 1}, time.Date(2010, 1, 6, 14, 17, 0, 0, time.UTC)},
		{"every hour", Interval{Unit: Hour, Every: 1}, time.Date(2010, 1, 6, 15, 16, 0, 0, time.UTC)},
		{"every day", Interval{Unit: Day, Every: 1}, time.Date(2010, 1, 7, 14, 16, 0, 0, time.UTC)},
		{"every week", Interval{Unit: Week, Every: 1}, time.Date(2010, 1, 13, 14, 16, 0, 0, time.UTC)},
		{"every 2 minutes", Interval{Unit: Minute, Every: 2}, time.Date(2010, 1, 6, 14, 18, 0, 0, time.UTC)},
		{"every 3 weeks", Interval{Unit: Week, Every: 3}, time.Date(2010, 1, 27, 14, 16, 0, 0, time.UTC)},

		{"minute at :30", Interval{Unit: Minute, Every: 1, At: at(0, 0, 30)}, time.Date(2010, 1, 6, 14, 16, 30, 0, time.UTC)},
		{"hour at 30:00", Interval{Unit: Hour, Every: 1, At: at(0, 30, 0)}, time.Date(2010, 1, 6, 14, 30, 0, 0, time.UTC)},
		{"hour at 10:00 passed", Interval{Unit: Hour, Every: 1, At: at(0, 10, 0)}, time.Date(2010, 1, 6, 15, 10, 0, 0, time.UTC)},
		{"day at 15:00 today", Interval{Unit: Day, Every: 1, At: at(15, 0, 0)}, time.Date(2010, 1, 6, 15, 0, 0, 0, time.UTC)},
		{"day at 10:30 tomorrow", Interval{Unit: Day, Every: 1, At: at(10, 30, 0)}, time.Date(2010, 1, 7, 10, 30, 0, 0, time.UTC)},
		{"day at current time", Interval{Unit: Day, Every: 1, At: at(14, 16, 0)}, time.Date(2010, 1, 7, 14, 16, 0, 0, time.UTC)},
		{"every 2 days at 15:00", Interval{Unit: Day, Every: 2, At: at(15, 0, 0)}, time.Date(2010, 1, 8, 15, 0, 0, 0, time.UTC)},

		{"monday", Interval{Unit: Weekday, Weekday: time.Monday, Every: 1}, time.Date(2010, 1, 11, 14, 16, 0, 0, time.UTC)},
		{"wednesday without at", Interval{Unit: Weekday, Weekday: time.Wednesday, Every: 1}, time.Date(2010, 1, 13, 14, 16, 0, 0, time.UTC)},
		{"wednesday later today", Interval{Unit: Weekday, Weekday: time.Wednesday, Every: 1, At: at(15, 0, 0)}, time.Date(2010, 1, 6, 15, 0, 0, 0, time.UTC)},
		{"wednesday earlier today", Interval{Unit: Weekday, Weekday: time.Wednesday, Every: 1, At: at(14, 0, 0)}, time.Date(2010, 1, 13, 14, 0, 0, 0, time.UTC)},
		{"sunday at 09:00", Interval{Unit: Weekday, Weekday: time.Sunday, Every: 1, At: at(9, 0, 0)}, time.Date(2010, 1, 10, 9, 0, 0, 0, time.UTC)},

		// 14:16 UTC is 09:16 in New York, so 10:30 is still ahead today.
		{"zone behind", Interval{Unit: Day, Every: 1, At: at(10, 30, 0), Zone: newYork}, time.Date(2010, 1, 6, 15, 30, 0, 0, time.UTC)},
		// 14:16 UTC is 19:46 in Kolkata, so 10:30 is tomorrow.
		{"zone ahead", Interval{Unit: Day, Every: 1, At: at(10, 30, 0), Zone: kolkata}, time.Date(2010, 1, 7, 5, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.iv.Validate())
			got, expired := tt.iv.Next(testNow, nil)
			assert.False(t, expired)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestNextReportsInNowLocation(t *testing.T) {
	berlin := mustLocation(t, "Europe/Berlin")
	iv := Interval{Unit: Day, Every: 1, At: at(10, 30, 0), Zone: mustLocation(t, "America/New_York")}

	got, _ := iv.Next(testNow.In(berlin), nil)
	assert.Equal(t, berlin, got.Location())
	assert.True(t, got.Equal(time.Date(2010, 1, 6, 15, 30, 0, 0, time.UTC)))

	// New York has switched to summer time, Berlin has not.
	got, _ = iv.Next(time.Date(2022, 3, 20, 10, 0, 0, 0, berlin), nil)
	assert.Equal(t, time.Date(2022, 3, 20, 15, 30, 0, 0, berlin), got)
}

func TestNextLongInterval(t *testing.T) {
	got, expired := Interval{Unit: Hour, Every: 3_000_000}.Next(testNow, nil)
	assert.False(t, expired)
	assert.True(t, got.Equal(testNow.AddDate(0, 0, 125_000)), "got %s", got)
}

func TestNextIsStrictlyAfterNow(t *testing.T) {
	iv := Interval{Unit: Minute, Every: 1, At: at(0, 0, 0)}
	now := time.Date(2010, 1, 6, 14, 16, 0, 0, time.UTC)

	got, _ := iv.Next(now, nil)
	assert.True(t, got.After(now))
	assert.Equal(t, time.Date(2010, 1, 6, 14, 17, 0, 0, time.UTC), got)
}

func TestNextUntil(t *testing.T) {
	iv := Interval{Unit: Minute, Every: 1, Until: testNow.Add(30 * time.Second)}
	next, expired := iv.Next(testNow, nil)
	assert.True(t, expired)
	assert.Equal(t, testNow.Add(time.Minute), next)

	iv.Until = testNow.Add(time.Minute)
	_, expired = iv.Next(testNow, nil)
	assert.False(t, expired, "a run exactly at the deadline is allowed")
}

func TestNextJitter(t *testing.T) {
	iv := Interval{Unit: Second, Every: 5, Latest: 10}

	got, _ := iv.Next(testNow, nil)
	assert.Equal(t, testNow.Add(5*time.Second), got, "no source uses the lower bound")

	got, _ = iv.Next(testNow, fixedSource(3))
	assert.Equal(t, testNow.Add(8*time.Second), got)

	got, _ = iv.Next(testNow, fixedSource(100))
	assert.Equal(t, testNow.Add(10*time.Second), got, "upper bound is inclusive")

	rnd := rand.New(rand.NewPCG(1, 2))
	seen := make(map[time.Duration]bool)
	for range 200 {
		got, _ := iv.Next(testNow, rnd)
		d := got.Sub(testNow)
		require.GreaterOrEqual(t, d, 5*time.Second)
		require.LessOrEqual(t, d, 10*time.Second)
		require.Zero(t, d%time.Second, "whole units only")
		seen[d] = true
	}
	assert.Len(t, seen, 6)
}

func TestNextDaylightSaving(t *testing.T) {
	berlin := mustLocation(t, "Europe/Berlin")
	daily := Interval{Unit: Day, Every: 1, At: at(2, 30, 0), Zone: berlin}

	t.Run("gap runs after the gap", func(t *testing.T) {
		got, _ := daily.Next(time.Date(2024, 3, 30, 12, 0, 0, 0, time.UTC), nil)
		assert.True(t, got.Equal(time.Date(2024, 3, 31, 1, 30, 0, 0, time.UTC)), "got %s", got)

		// The day after, the job is back at 02:30.
		again, _ := daily.Next(got, nil)
		assert.True(t, again.Equal(time.Date(2024, 4, 1, 0, 30, 0, 0, time.UTC)), "got %s", again)
	})

	t.Run("fold runs once", func(t *testing.T) {
		first, _ := daily.Next(time.Date(2024, 10, 26, 12, 0, 0, 0, time.UTC), nil)
		assert.True(t, first.Equal(time.Date(2024, 10, 27, 0, 30, 0, 0, time.UTC)), "got %s", first)

		second, _ := daily.Next(first, nil)
		assert.True(t, second.Equal(time.Date(2024, 10, 28, 1, 30, 0, 0, time.UTC)), "got %s", second)
	})

	t.Run("hours follow the wall clock", func(t *testing.T) {
		now := time.Date(2024, 3, 31, 0, 0, 0, 0, berlin)
		got, _ := Interval{Unit: Hour, Every: 4}.Next(now, nil)
		assert.Equal(t, time.Date(2024, 3, 31, 4, 0, 0, 0, berlin), got)
		assert.Equal(t, 3*time.Hour, got.Sub(now))
	})

	t.Run("days keep the time of day", func(t *testing.T) {
		now := time.Date(2024, 3, 30, 9, 0, 0, 0, berlin)
		got, _ := Interval{Unit: Day, Every: 1}.Next(now, nil)
		assert.Equal(t, time.Date(2024, 3, 31, 9, 0, 0, 0, berlin), got)
		assert.Equal(t, 23*time.Hour, got.Sub(now))
	})
}

func TestNextCron(t *testing.T) {
	iv, err := CronInterval("30 9 * * 1-5")
	require.NoError(t, err)

	got, expired := iv.Next(testNow, nil)
	assert.False(t, expired)
	assert.Equal(t, time.Date(2010, 1, 7, 9, 30, 0, 0, time.UTC), got)

	never, err := CronInterval("0 0 30 2 *")
	require.NoError(t, err)
	_, expired = never.Next(testNow, nil)
	assert.True(t, expired, "unsatisfiable expressions expire")
}
