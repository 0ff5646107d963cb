package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalConversion(t *testing.T) {
	t.Run("nil estimate is a null interval", func(t *testing.T) {
		assert.False(t, IntervalParam(nil).Valid)
		assert.Nil(t, IntervalValue(pgtype.Interval{}))
	})

	t.Run("round trips hours", func(t *testing.T) {
		d := 12 * time.Hour
		got := IntervalValue(IntervalParam(&d))
		require.NotNil(t, got)
		assert.Equal(t, d, *got)
	})

	t.Run("days and months are flattened", func(t *testing.T) {
		got := IntervalValue(pgtype.Interval{Microseconds: int64(time.Hour / time.Microsecond), Days: 2, Valid: true})
		require.NotNil(t, got)
		assert.Equal(t, 49*time.Hour, *got)

		got = IntervalValue(pgtype.Interval{Months: 1, Valid: true})
		require.NotNil(t, got)
		assert.Equal(t, 720*time.Hour, *got)
	})
}

func TestDateConversion(t *testing.T) {
	assert.False(t, DateParam(nil).Valid)
	assert.Nil(t, DateValue(pgtype.Date{}))

	in := time.Date(2024, time.May, 3, 0, 0, 0, 0, time.UTC)
	out := DateValue(DateParam(&in))
	require.NotNil(t, out)
	assert.True(t, in.Equal(*out))

	local := pgtype.Date{Time: time.Date(2024, time.May, 3, 0, 0, 0, 0, time.FixedZone("x", 5*3600)), Valid: true}
	out = DateValue(local)
	require.NotNil(t, out)
	assert.Equal(t, time.UTC, out.Location())
	assert.Equal(t, 3, out.Day())
}

func TestTextArray(t *testing.T) {
	assert.NotNil(t, TextArray(nil))
	assert.Empty(t, TextArray(nil))
	assert.Equal(t, []string{"a"}, TextArray([]string{"a"}))
}
