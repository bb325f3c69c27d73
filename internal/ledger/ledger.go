// internal/ledger/ledger.go
//
// Lifetime statistics across rounds.
// Responsibilities:
//   - Score table: points for a win by attempt number.
//   - Aggregate counters: total score, games played/won, wins per attempt.
//   - Load once at startup, persist after every recorded result.
//
// A missing or unreadable saved record never fails the ledger; it starts
// from zero instead.

package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/robalobadob/decryption/internal/store"
)

// MaxAttempts is the number of guesses allowed in a round.
const MaxAttempts = 5

// ErrInvalidRecord is returned by Load when the saved counters break the
// ledger invariants (negative values, more wins than games).
var ErrInvalidRecord = errors.New("ledger: invalid record")

// scores holds the points for a win on attempts 1..MaxAttempts.
var scores = [MaxAttempts]int{200, 150, 100, 50, 0}

// Score returns the points for a win on the given attempt number.
// Attempts outside 1..MaxAttempts score 0.
func Score(attempt int) int {
	if attempt < 1 || attempt > MaxAttempts {
		return 0
	}
	return scores[attempt-1]
}

// Stats is a read-only view of the ledger.
type Stats struct {
	TotalScore          int         `json:"totalScore"`
	GamesPlayed         int         `json:"gamesPlayed"`
	GamesWon            int         `json:"gamesWon"`
	AttemptDistribution map[int]int `json:"attemptDistribution"`
	WinPercentage       float64     `json:"winPercentage"`
}

// Ledger tracks lifetime statistics and writes them through a Store.
// It is not safe for concurrent use.
type Ledger struct {
	st  store.Store
	log zerolog.Logger
	rec store.Record
}

// Open returns a ledger loaded from st. Load failures are logged and the
// ledger starts from zero.
func Open(ctx context.Context, st store.Store, logger zerolog.Logger) *Ledger {
	l := &Ledger{
		st:  st,
		log: logger.With().Str("component", "ledger").Logger(),
		rec: zeroRecord(),
	}
	switch err := l.Load(ctx); {
	case errors.Is(err, store.ErrNotFound):
		l.log.Info().Msg("no saved ledger, starting fresh")
	case err != nil:
		l.log.Warn().Err(err).Msg("saved ledger unusable, starting fresh")
	default:
		l.log.Info().
			Int("totalScore", l.rec.TotalScore).
			Int("gamesPlayed", l.rec.GamesPlayed).
			Int("gamesWon", l.rec.GamesWon).
			Msg("ledger loaded")
	}
	return l
}

func zeroRecord() store.Record {
	r := store.Record{AttemptDistribution: make(map[int]int, MaxAttempts)}
	for i := 1; i <= MaxAttempts; i++ {
		r.AttemptDistribution[i] = 0
	}
	return r
}

// Load replaces the in-memory counters with the saved record. On any
// error the ledger is reset to zero and the error returned.
func (l *Ledger) Load(ctx context.Context) error {
	rec, err := l.st.Load(ctx)
	if err == nil {
		err = validate(rec)
	}
	if err != nil {
		l.rec = zeroRecord()
		return err
	}

	l.rec = zeroRecord()
	l.rec.TotalScore = rec.TotalScore
	l.rec.GamesPlayed = rec.GamesPlayed
	l.rec.GamesWon = rec.GamesWon
	for i := 1; i <= MaxAttempts; i++ {
		l.rec.AttemptDistribution[i] = rec.AttemptDistribution[i]
	}
	return nil
}

func validate(r store.Record) error {
	if r.TotalScore < 0 || r.GamesPlayed < 0 || r.GamesWon < 0 {
		return fmt.Errorf("%w: negative counter", ErrInvalidRecord)
	}
	if r.GamesWon > r.GamesPlayed {
		return fmt.Errorf("%w: %d wins in %d games", ErrInvalidRecord, r.GamesWon, r.GamesPlayed)
	}
	for k, v := range r.AttemptDistribution {
		if v < 0 {
			return fmt.Errorf("%w: negative wins at attempt %d", ErrInvalidRecord, k)
		}
	}
	return nil
}

// Persist writes the current counters.
func (l *Ledger) Persist(ctx context.Context) error {
	if err := l.st.Save(ctx, l.rec.Clone()); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// RecordResult counts a finished round and persists the ledger.
// A win adds Score(attempt) and bumps the distribution at attempt.
func (l *Ledger) RecordResult(ctx context.Context, won bool, attempt int) error {
	l.rec.GamesPlayed++
	if won {
		l.rec.GamesWon++
		l.rec.TotalScore += Score(attempt)
		if attempt >= 1 && attempt <= MaxAttempts {
			l.rec.AttemptDistribution[attempt]++
		}
		l.log.Info().Int("attempt", attempt).Int("score", Score(attempt)).Msg("win recorded")
	} else {
		l.log.Info().Int("attempt", attempt).Msg("loss recorded")
	}
	return l.Persist(ctx)
}

// Reset zeroes every counter and persists the empty ledger.
func (l *Ledger) Reset(ctx context.Context) error {
	l.rec = zeroRecord()
	return l.Persist(ctx)
}

// Stats returns a copy of the counters.
func (l *Ledger) Stats() Stats {
	rec := l.rec.Clone()
	s := Stats{
		TotalScore:          rec.TotalScore,
		GamesPlayed:         rec.GamesPlayed,
		GamesWon:            rec.GamesWon,
		AttemptDistribution: rec.AttemptDistribution,
	}
	if rec.GamesPlayed > 0 {
		s.WinPercentage = float64(rec.GamesWon) / float64(rec.GamesPlayed) * 100
	}
	return s
}
