package mcu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTenure(t *testing.T) {
	now := date(2024, time.June, 15)

	assert.Equal(t, "0 year", Tenure(nil, now))

	hire := date(2021, time.June, 15)
	// 1096 days elapsed: 3 "years" of 365 days plus 1 day.
	assert.Equal(t, "3 year(s) 0 month(s)", Tenure(&hire, now))

	hire = date(2024, time.January, 1)
	// 166 days: 0 years, 5 fixed 30-day months.
	assert.Equal(t, "0 year(s) 5 month(s)", Tenure(&hire, now))

	future := date(2025, time.January, 1)
	assert.Equal(t, "0 year(s) 0 month(s)", Tenure(&future, now))
}

func TestExpiry(t *testing.T) {
	assert.Nil(t, Expiry(nil))

	exam := date(2024, time.March, 1)
	expiry := Expiry(&exam)
	require.NotNil(t, expiry)
	assert.Equal(t, exam.Add(365*24*time.Hour), *expiry)
}

func TestClassify(t *testing.T) {
	now := date(2024, time.June, 15)

	assert.Equal(t, StatusNoMCU, Classify(nil, now))

	past := now.Add(-time.Hour)
	assert.Equal(t, StatusExpired, Classify(&past, now))

	// On the expiry instant itself the comparison is strict: still current.
	onExpiry := now
	assert.Equal(t, StatusActive, Classify(&onExpiry, now))

	// Exactly 30 days remaining already warns.
	thirty := now.Add(30 * 24 * time.Hour)
	assert.Equal(t, StatusWillExpire, Classify(&thirty, now))

	beyond := now.Add(30*24*time.Hour + time.Second)
	assert.Equal(t, StatusActive, Classify(&beyond, now))
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusNoMCU, StatusActive, StatusWillExpire, StatusExpired} {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("Unknown").Valid())
}
