package daily

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	// 02:00 on the 20th in UTC+9 is still the 19th in UTC.
	assert.Equal(t, "2026-10-19", DateKey(time.Date(2026, 10, 20, 2, 0, 0, 0, loc)))
}

func TestSeed(t *testing.T) {
	day := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	later := day.Add(10 * time.Hour)
	tomorrow := day.Add(24 * time.Hour)

	a1, a2, err := Seed(day, "salt")
	require.NoError(t, err)
	b1, b2, err := Seed(later, "salt")
	require.NoError(t, err)
	assert.Equal(t, [2]uint64{a1, a2}, [2]uint64{b1, b2}, "same UTC day gives the same seed")

	c1, c2, err := Seed(tomorrow, "salt")
	require.NoError(t, err)
	assert.NotEqual(t, [2]uint64{a1, a2}, [2]uint64{c1, c2})

	d1, d2, err := Seed(day, "pepper")
	require.NoError(t, err)
	assert.NotEqual(t, [2]uint64{a1, a2}, [2]uint64{d1, d2})
}

func TestSeed_SaltTooLong(t *testing.T) {
	_, _, err := Seed(time.Now(), strings.Repeat("s", 65))
	assert.Error(t, err)
}

func TestRand_Reproducible(t *testing.T) {
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	r1, err := Rand(day, "salt")
	require.NoError(t, err)
	r2, err := Rand(day, "salt")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.Equal(t, r1.IntN(1000), r2.IntN(1000))
	}
}
