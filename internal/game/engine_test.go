package game

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/decryption/internal/ledger"
	"github.com/robalobadob/decryption/internal/store"
	"github.com/robalobadob/decryption/internal/words"
)

// fixedCatalog always deals the same options and target.
type fixedCatalog struct {
	options []string
	target  string
}

func (f fixedCatalog) GenerateRound() []string { return append([]string(nil), f.options...) }
func (f fixedCatalog) SelectTarget([]string) string { return f.target }

// failingRecorder rejects every result.
type failingRecorder struct{ calls int }

func (f *failingRecorder) RecordResult(context.Context, bool, int) error {
	f.calls++
	return errors.New("disk full")
}

var catDogBat = fixedCatalog{
	options: []string{"CAT", "DOG", "BAT", words.Placeholder, words.Placeholder,
		words.Placeholder, words.Placeholder, words.Placeholder},
	target: "CAT",
}

func newTestEngine(t *testing.T, cat Catalog) (*Engine, *ledger.Ledger) {
	t.Helper()
	led := ledger.Open(context.Background(), store.NewMemoryStore(), zerolog.Nop())
	e, err := New(cat, led, zerolog.Nop())
	require.NoError(t, err)
	return e, led
}

func TestNew_RequiresCollaborators(t *testing.T) {
	led := ledger.Open(context.Background(), store.NewMemoryStore(), zerolog.Nop())

	_, err := New(nil, led, zerolog.Nop())
	assert.Error(t, err)

	_, err = New(catDogBat, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestStartRound(t *testing.T) {
	e, _ := newTestEngine(t, catDogBat)
	assert.Equal(t, StateNotStarted, e.State())

	snap := e.StartRound()
	assert.Equal(t, StateInProgress, snap.State)
	assert.NotEmpty(t, snap.RoundID)
	assert.Len(t, snap.Options, words.OptionCount)
	assert.Equal(t, 3, snap.WordLength)
	assert.Equal(t, 0, snap.AttemptCount)
	assert.Equal(t, MaxAttempts, snap.RemainingAttempts)
	assert.False(t, snap.Over)
	assert.Empty(t, snap.Target, "target is hidden while the round is in progress")
}

func TestSubmitGuess_Feedback(t *testing.T) {
	e, led := newTestEngine(t, catDogBat)
	e.StartRound()

	res := e.SubmitGuess(context.Background(), "DOG")
	assert.True(t, res.Accepted)
	assert.False(t, res.Correct)
	assert.Equal(t, 0, res.MatchCount)
	assert.Equal(t, "0/3 correct characters", res.Message)

	res = e.SubmitGuess(context.Background(), "BAT")
	assert.Equal(t, 2, res.MatchCount)
	assert.Equal(t, "2/3 correct characters", res.Message)
	assert.Equal(t, StateInProgress, res.State)

	snap := e.Snapshot()
	assert.Equal(t, []string{"DOG", "BAT"}, snap.AttemptedWords)
	assert.Equal(t, []int{0, 2}, snap.FeedbackScores)
	assert.Equal(t, 2, snap.AttemptCount)
	assert.Equal(t, 0, led.Stats().GamesPlayed)
}

func TestSubmitGuess_WinOnFirstAttempt(t *testing.T) {
	e, led := newTestEngine(t, catDogBat)
	e.StartRound()

	res := e.SubmitGuess(context.Background(), "CAT")
	assert.True(t, res.Correct)
	assert.Equal(t, 3, res.MatchCount)
	assert.Equal(t, MsgCorrect, res.Message)
	assert.Equal(t, StateWon, res.State)

	snap := e.Snapshot()
	assert.True(t, snap.Won)
	assert.True(t, snap.Over)
	assert.Equal(t, 200, snap.Score)
	assert.Equal(t, "CAT", snap.Target)

	st := led.Stats()
	assert.Equal(t, 200, st.TotalScore)
	assert.Equal(t, 1, st.GamesPlayed)
	assert.Equal(t, 1, st.GamesWon)
	assert.Equal(t, 1, st.AttemptDistribution[1])
}

func TestSubmitGuess_LossAfterMaxAttempts(t *testing.T) {
	e, led := newTestEngine(t, catDogBat)
	e.StartRound()

	for i, w := range []string{"DOG", "BAT", "DOG", "BAT", "DOG"} {
		res := e.SubmitGuess(context.Background(), w)
		require.True(t, res.Accepted, "guess %d", i+1)
		assert.False(t, res.Correct)
	}

	snap := e.Snapshot()
	assert.Equal(t, StateLost, snap.State)
	assert.True(t, snap.Over)
	assert.False(t, snap.Won)
	assert.Equal(t, 0, snap.RemainingAttempts)
	assert.Equal(t, "CAT", snap.Target, "target is disclosed once the round is over")

	st := led.Stats()
	assert.Equal(t, 1, st.GamesPlayed)
	assert.Equal(t, 0, st.GamesWon)
	assert.Equal(t, 0, st.TotalScore)
}

func TestSubmitGuess_WinOnLastAttempt(t *testing.T) {
	e, led := newTestEngine(t, catDogBat)
	e.StartRound()

	for _, w := range []string{"DOG", "BAT", "DOG", "BAT"} {
		e.SubmitGuess(context.Background(), w)
	}
	res := e.SubmitGuess(context.Background(), "CAT")
	assert.True(t, res.Correct)
	assert.Equal(t, StateWon, res.State)

	st := led.Stats()
	assert.Equal(t, 1, st.GamesWon)
	assert.Equal(t, 1, st.AttemptDistribution[MaxAttempts])
	assert.Equal(t, 0, st.TotalScore)
}

func TestSubmitGuess_AfterGameOverIsRejected(t *testing.T) {
	e, led := newTestEngine(t, catDogBat)
	e.StartRound()
	e.SubmitGuess(context.Background(), "CAT")

	before := e.Snapshot()
	statsBefore := led.Stats()

	for _, w := range []string{"CAT", "DOG", "NOPE"} {
		res := e.SubmitGuess(context.Background(), w)
		assert.False(t, res.Accepted)
		assert.False(t, res.Correct)
		assert.Equal(t, MsgGameOver, res.Message)
	}

	assert.Equal(t, before, e.Snapshot())
	assert.Equal(t, statsBefore, led.Stats())
}

func TestSubmitGuess_Rejections(t *testing.T) {
	tests := []struct {
		name string
		word string
		msg  string
	}{
		{name: "not an option", word: "COW", msg: MsgNotAnOption},
		{name: "empty", word: "", msg: MsgNotAnOption},
		{name: "placeholder", word: words.Placeholder, msg: MsgNotAnOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t, catDogBat)
			e.StartRound()

			res := e.SubmitGuess(context.Background(), tt.word)
			assert.False(t, res.Accepted)
			assert.Equal(t, tt.msg, res.Message)
			assert.Equal(t, 0, e.Snapshot().AttemptCount)
		})
	}
}

func TestSubmitGuess_BeforeStart(t *testing.T) {
	e, _ := newTestEngine(t, catDogBat)
	res := e.SubmitGuess(context.Background(), "CAT")
	assert.False(t, res.Accepted)
	assert.Equal(t, MsgNotStarted, res.Message)
	assert.Equal(t, StateNotStarted, res.State)
}

func TestSubmitGuess_NormalizesCaseAndAllowsRepeats(t *testing.T) {
	e, _ := newTestEngine(t, catDogBat)
	e.StartRound()

	assert.True(t, e.SubmitGuess(context.Background(), " dog ").Accepted)
	assert.True(t, e.SubmitGuess(context.Background(), "DOG").Accepted)
	assert.Equal(t, []string{"DOG", "DOG"}, e.Snapshot().AttemptedWords)
}

func TestObserver(t *testing.T) {
	e, _ := newTestEngine(t, catDogBat)

	var got []Snapshot
	e.SetObserver(func(s Snapshot) { got = append(got, s) })

	e.StartRound()
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].AttemptCount)

	e.SubmitGuess(context.Background(), "COW")
	assert.Len(t, got, 1, "rejected guesses do not notify")

	e.SubmitGuess(context.Background(), "DOG")
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[1].AttemptCount)

	e.SubmitGuess(context.Background(), "CAT")
	require.Len(t, got, 3)
	assert.True(t, got[2].Won)

	e.SetObserver(nil)
	e.StartRound()
	assert.Len(t, got, 3)
}

func TestStartRound_ReplacesFinishedRound(t *testing.T) {
	e, _ := newTestEngine(t, catDogBat)
	first := e.StartRound()
	e.SubmitGuess(context.Background(), "CAT")
	require.True(t, e.Snapshot().Over)

	second := e.StartRound()
	assert.NotEqual(t, first.RoundID, second.RoundID)
	assert.Equal(t, StateInProgress, second.State)
	assert.Equal(t, 0, second.AttemptCount)
	assert.Empty(t, second.AttemptedWords)
	assert.Equal(t, 0, second.Score)
}

func TestSubmitGuess_RecorderFailureDoesNotFailGuess(t *testing.T) {
	rec := &failingRecorder{}
	e, err := New(catDogBat, rec, zerolog.Nop())
	require.NoError(t, err)
	e.StartRound()

	res := e.SubmitGuess(context.Background(), "CAT")
	assert.True(t, res.Correct)
	assert.Equal(t, 1, rec.calls)
	assert.True(t, e.Snapshot().Won)
}

func TestEngine_WithCatalogRounds(t *testing.T) {
	cat, err := words.Load(words.MapSource{3: {"CAT", "DOG", "BAT"}, 5: {"PIXEL", "LASER", "TOKEN"}},
		rand.New(rand.NewPCG(3, 5)), zerolog.Nop())
	require.NoError(t, err)
	e, led := newTestEngine(t, cat)

	for i := 0; i < 20; i++ {
		snap := e.StartRound()
		require.Len(t, snap.Options, words.OptionCount)

		// Play every real option until the round ends.
		for _, o := range snap.Options {
			if o == words.Placeholder || e.Snapshot().Over {
				continue
			}
			e.SubmitGuess(context.Background(), o)
		}
		end := e.Snapshot()
		require.True(t, end.Won, "three real options always win within five attempts")
		assert.Contains(t, end.Options, end.Target)
	}
	assert.Equal(t, 20, led.Stats().GamesWon)
}

func TestMatchCount(t *testing.T) {
	tests := []struct {
		guess, target string
		want          int
	}{
		{"DOG", "CAT", 0},
		{"BAT", "CAT", 2},
		{"CAT", "CAT", 3},
		{"CATS", "CAT", 3},
		{"", "CAT", 0},
		{"PIXEL", "LASER", 1},
		{"TOKEN", "TOKEN", 5},
	}
	for _, tt := range tests {
		t.Run(tt.guess+"_"+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchCount(tt.guess, tt.target))
		})
	}
}
