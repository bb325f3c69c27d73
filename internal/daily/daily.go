package daily

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/crypto/blake2b"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed derives a PCG seed pair for a date: BLAKE2b-256 keyed with salt over
// the date key. The salt may be at most 64 bytes.
func Seed(date time.Time, salt string) (uint64, uint64, error) {
	h, err := blake2b.New256([]byte(salt))
	if err != nil {
		return 0, 0, fmt.Errorf("daily seed: %w", err)
	}
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:16]), nil
}

// Rand returns a generator whose sequence is fixed for the date's UTC day.
func Rand(date time.Time, salt string) (*rand.Rand, error) {
	s1, s2, err := Seed(date, salt)
	if err != nil {
		return nil, err
	}
	return rand.New(rand.NewPCG(s1, s2)), nil
}
