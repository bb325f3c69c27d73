// internal/game/engine.go
//
// Core game engine for a single session.
// Responsibilities:
//   - Start rounds: 8 same-length options from the catalog, one hidden target.
//   - Validate guesses against the round's options.
//   - Score guesses by positional letter matches.
//   - Track state transitions: in progress → won/lost, and record the
//     outcome in the ledger.
//   - Notify an optional observer after every state change.
//
// Notes:
//   - The engine is single-threaded; callers serialize access.
//   - Invalid guesses are reported in the Result, never as errors.
//   - Ledger persistence failures are logged and do not affect the round.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robalobadob/decryption/internal/ledger"
)

// MaxAttempts is the number of guesses allowed per round.
const MaxAttempts = ledger.MaxAttempts

const (
	MsgCorrect     = "Correct!"
	MsgGameOver    = "Game is already over"
	MsgNotStarted  = "No round in progress"
	MsgNotAnOption = "Word is not in the options list"
)

// Catalog supplies words for new rounds.
type Catalog interface {
	GenerateRound() []string
	SelectTarget(options []string) string
}

// Recorder receives the outcome of every finished round.
type Recorder interface {
	RecordResult(ctx context.Context, won bool, attempt int) error
}

// Observer is called synchronously after each state change.
type Observer func(Snapshot)

// Engine runs rounds against a catalog and records results.
type Engine struct {
	catalog  Catalog
	recorder Recorder
	log      zerolog.Logger
	observer Observer
	round    *Round
}

// New constructs an engine. No round is started.
func New(catalog Catalog, recorder Recorder, logger zerolog.Logger) (*Engine, error) {
	if catalog == nil {
		return nil, errors.New("game: nil catalog")
	}
	if recorder == nil {
		return nil, errors.New("game: nil recorder")
	}
	return &Engine{
		catalog:  catalog,
		recorder: recorder,
		log:      logger.With().Str("component", "game").Logger(),
	}, nil
}

// SetObserver registers fn as the state-change observer, replacing any
// previous one. A nil fn disables notifications.
func (e *Engine) SetObserver(fn Observer) { e.observer = fn }

// StartRound discards the current round and begins a fresh one.
func (e *Engine) StartRound() Snapshot {
	options := e.catalog.GenerateRound()
	e.round = &Round{
		ID:             uuid.NewString(),
		Options:        options,
		Target:         e.catalog.SelectTarget(options),
		AttemptedWords: []string{},
		FeedbackScores: []int{},
	}
	e.log.Info().Str("round", e.round.ID).Strs("options", options).Msg("round started")
	e.log.Debug().Str("round", e.round.ID).Str("target", e.round.Target).Msg("target selected")

	snap := e.Snapshot()
	e.notify(snap)
	return snap
}

// SubmitGuess applies word to the current round.
//
// Rejections (no mutation, Accepted=false):
//   - no round started or the round is over;
//   - word is not one of the round's options.
//
// State transitions:
//   - word == target → won, regardless of the attempt number.
//   - else attempts reach MaxAttempts → lost.
func (e *Engine) SubmitGuess(ctx context.Context, word string) Result {
	r := e.round
	if r == nil {
		return Result{Message: MsgNotStarted, State: StateNotStarted}
	}
	if r.Over {
		e.log.Debug().Str("round", r.ID).Str("word", word).Msg("guess after game over")
		return Result{Message: MsgGameOver, State: r.state()}
	}
	word = strings.ToUpper(strings.TrimSpace(word))
	if !r.isOption(word) {
		e.log.Debug().Str("round", r.ID).Str("word", word).Msg("guess not an option")
		return Result{Message: MsgNotAnOption, State: r.state()}
	}

	r.AttemptCount++
	r.AttemptedWords = append(r.AttemptedWords, word)
	matches := MatchCount(word, r.Target)
	r.FeedbackScores = append(r.FeedbackScores, matches)

	correct := word == r.Target
	switch {
	case correct:
		r.Won, r.Over = true, true
		r.Score = ledger.Score(r.AttemptCount)
		e.log.Info().Str("round", r.ID).Int("attempt", r.AttemptCount).Int("score", r.Score).Msg("round won")
		e.record(ctx, true)
	case r.AttemptCount >= MaxAttempts:
		r.Over = true
		e.log.Info().Str("round", r.ID).Int("attempt", r.AttemptCount).Msg("round lost")
		e.record(ctx, false)
	default:
		e.log.Debug().Str("round", r.ID).Int("attempt", r.AttemptCount).Int("matches", matches).Msg("guess scored")
	}

	e.notify(e.Snapshot())

	res := Result{Correct: correct, MatchCount: matches, Accepted: true, State: r.state()}
	if correct {
		res.Message = MsgCorrect
	} else {
		res.Message = fmt.Sprintf("%d/%d correct characters", matches, len(r.Target))
	}
	return res
}

func (e *Engine) record(ctx context.Context, won bool) {
	if err := e.recorder.RecordResult(ctx, won, e.round.AttemptCount); err != nil {
		e.log.Warn().Err(err).Str("round", e.round.ID).Msg("record result")
	}
}

func (e *Engine) notify(s Snapshot) {
	if e.observer != nil {
		e.observer(s)
	}
}

// isOption reports whether w is one of the round's real options.
// Padding placeholders are not guessable.
func (r *Round) isOption(w string) bool {
	if len(w) != len(r.Target) {
		return false
	}
	for _, o := range r.Options {
		if o == w {
			return true
		}
	}
	return false
}

// MatchCount returns the number of index positions where guess and target
// hold the same byte, over the shorter of the two.
func MatchCount(guess, target string) int {
	n := min(len(guess), len(target))
	count := 0
	for i := 0; i < n; i++ {
		if guess[i] == target[i] {
			count++
		}
	}
	return count
}

// State reports the lifecycle state of the current round.
func (e *Engine) State() State { return e.round.state() }

// Snapshot returns a copy of the current round for display.
func (e *Engine) Snapshot() Snapshot {
	r := e.round
	if r == nil {
		return Snapshot{
			State:          StateNotStarted,
			Options:        []string{},
			MaxAttempts:    MaxAttempts,
			AttemptedWords: []string{},
			FeedbackScores: []int{},
		}
	}
	s := Snapshot{
		RoundID:           r.ID,
		State:             r.state(),
		Options:           append([]string(nil), r.Options...),
		WordLength:        len(r.Target),
		AttemptCount:      r.AttemptCount,
		MaxAttempts:       MaxAttempts,
		RemainingAttempts: MaxAttempts - r.AttemptCount,
		AttemptedWords:    append([]string{}, r.AttemptedWords...),
		FeedbackScores:    append([]int{}, r.FeedbackScores...),
		Score:             r.Score,
		Won:               r.Won,
		Over:              r.Over,
	}
	if r.Over {
		s.Target = r.Target
	}
	return s
}
