// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - State: lifecycle of a round (not started → in progress → won/lost).
//   - Round: mutable record of one round, owned by the Engine.
//   - Snapshot: read-only copy handed to the view.
//   - Result: outcome of a single guess.

package game

// State is the coarse lifecycle of the current round.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateWon        State = "won"
	StateLost       State = "lost"
)

// Terminal reports whether no further guesses are accepted in s.
func (s State) Terminal() bool { return s == StateWon || s == StateLost }

// Round holds the state of a single round. A new Round replaces the old
// one on every StartRound; a finished Round is never reopened.
type Round struct {
	ID             string   // Unique round identifier (uuid).
	Options        []string // The words offered this round, fixed for its lifetime.
	Target         string   // The hidden word; always one of Options.
	AttemptCount   int      // Accepted guesses so far (0..MaxAttempts).
	AttemptedWords []string // Guesses in the order they were made.
	FeedbackScores []int    // Positional matches per guess, parallel to AttemptedWords.
	Score          int      // Points earned; set on a win.
	Won            bool     // True if the target was guessed.
	Over           bool     // True once the round is won or lost.
}

func (r *Round) state() State {
	switch {
	case r == nil:
		return StateNotStarted
	case r.Won:
		return StateWon
	case r.Over:
		return StateLost
	default:
		return StateInProgress
	}
}

// Snapshot is what the view renders. Target is empty until the round is
// over.
type Snapshot struct {
	RoundID           string   `json:"roundId,omitempty"`
	State             State    `json:"state"`
	Options           []string `json:"options"`
	WordLength        int      `json:"wordLength"`
	AttemptCount      int      `json:"attemptCount"`
	MaxAttempts       int      `json:"maxAttempts"`
	RemainingAttempts int      `json:"remainingAttempts"`
	AttemptedWords    []string `json:"attemptedWords"`
	FeedbackScores    []int    `json:"feedbackScores"`
	Score             int      `json:"score"`
	Won               bool     `json:"won"`
	Over              bool     `json:"over"`
	Target            string   `json:"target,omitempty"`
}

// Result is returned for every submitted guess, accepted or not.
type Result struct {
	Correct    bool   `json:"correct"`
	MatchCount int    `json:"matchCount"`
	Message    string `json:"message"`
	Accepted   bool   `json:"accepted"`
	State      State  `json:"state"`
}
