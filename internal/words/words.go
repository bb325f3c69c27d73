// internal/words/words.go
//
// Word catalog for the game engine.
//
// Responsibilities:
//   - Load per-length word lists (3..14 letters) from a Source.
//   - Keep entries bucketed by length so a round's options share one length.
//   - Generate the 8 options for a round and pick the target among them.
//   - Accept extra custom words at runtime.
//
// Normalization:
//   • Entries are trimmed and uppercased.
//   • Only A–Z entries whose length matches their bucket are kept.
//   • Duplicates are dropped case-insensitively.
//
// A Catalog is not safe for concurrent use; the engine owns it.

package words

import (
	"errors"
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	MinLength   = 3
	MaxLength   = 14
	OptionCount = 8
)

// Placeholder pads a round whose bucket has fewer than OptionCount words.
// It can never collide with a real entry since entries are at least
// MinLength letters.
const Placeholder = "?"

// ErrEmptyCorpus is returned when no source produced a single usable word.
var ErrEmptyCorpus = errors.New("words: corpus is empty")

// Catalog holds the corpus grouped by word length.
type Catalog struct {
	rng    *rand.Rand
	log    zerolog.Logger
	upper  cases.Caser
	byLen  map[int][]string
	corpus map[string]struct{}
}

// Load builds a catalog from src, asking it for every length in
// MinLength..MaxLength. A missing length is a gap, not a failure.
// Load fails only when the resulting corpus is empty.
func Load(src Source, rng *rand.Rand, logger zerolog.Logger) (*Catalog, error) {
	c := &Catalog{
		rng:    rng,
		log:    logger.With().Str("component", "words").Logger(),
		upper:  cases.Upper(language.Und),
		byLen:  make(map[int][]string),
		corpus: make(map[string]struct{}),
	}
	for n := MinLength; n <= MaxLength; n++ {
		list, err := src.Words(n)
		switch {
		case errors.Is(err, ErrNotFound):
			c.log.Debug().Int("length", n).Msg("no word list")
			continue
		case err != nil:
			c.log.Warn().Err(err).Int("length", n).Msg("word list unreadable, skipping")
			continue
		}
		added := c.insert(list, n)
		c.log.Debug().Int("length", n).Int("words", added).Msg("loaded word list")
	}
	if len(c.corpus) == 0 {
		return nil, ErrEmptyCorpus
	}
	c.log.Info().Int("words", len(c.corpus)).Int("buckets", len(c.byLen)).Msg("corpus loaded")
	return c, nil
}

// insert adds the valid, unseen entries of list. When length is zero each
// entry goes to the bucket of its own length. Returns the number added.
func (c *Catalog) insert(list []string, length int) int {
	added := 0
	for _, raw := range list {
		w := c.normalize(raw)
		if !valid(w) || (length != 0 && len(w) != length) {
			continue
		}
		if _, dup := c.corpus[w]; dup {
			continue
		}
		c.corpus[w] = struct{}{}
		c.byLen[len(w)] = append(c.byLen[len(w)], w)
		added++
	}
	return added
}

func (c *Catalog) normalize(s string) string {
	return c.upper.String(strings.TrimSpace(s))
}

// valid reports whether w is an uppercase A–Z word of an accepted length.
func valid(w string) bool {
	if len(w) < MinLength || len(w) > MaxLength {
		return false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return false
		}
	}
	return true
}

// GenerateRound returns exactly OptionCount options of a single length.
// The bucket is chosen uniformly among non-empty buckets and sampled
// without repetition; a short bucket is padded with Placeholder.
func (c *Catalog) GenerateRound() []string {
	lengths := c.lengths()
	if len(lengths) == 0 {
		return padded(nil)
	}
	bucket := c.byLen[lengths[c.rng.IntN(len(lengths))]]

	shuffled := append([]string(nil), bucket...)
	c.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if len(shuffled) > OptionCount {
		shuffled = shuffled[:OptionCount]
	}
	return padded(shuffled)
}

func padded(opts []string) []string {
	out := make([]string, 0, OptionCount)
	out = append(out, opts...)
	for len(out) < OptionCount {
		out = append(out, Placeholder)
	}
	return out
}

// lengths returns the non-empty bucket lengths in ascending order so
// that a seeded rng always sees the same sequence.
func (c *Catalog) lengths() []int {
	out := make([]int, 0, len(c.byLen))
	for n, b := range c.byLen {
		if len(b) > 0 {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}

// SelectTarget picks uniformly among the real words in options.
// It returns "" when options holds no real word.
func (c *Catalog) SelectTarget(options []string) string {
	candidates := make([]string, 0, len(options))
	for _, o := range options {
		if o != Placeholder {
			candidates = append(candidates, o)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[c.rng.IntN(len(candidates))]
}

// AddCustomWords normalizes and inserts words into the corpus, each into
// the bucket of its own length. Returns how many were new.
func (c *Catalog) AddCustomWords(words []string) int {
	if len(words) == 0 {
		return 0
	}
	added := c.insert(words, 0)
	if added > 0 {
		c.log.Info().Int("added", added).Int("words", len(c.corpus)).Msg("custom words added")
	}
	return added
}

// Contains reports whether w (in any case) is in the corpus.
func (c *Catalog) Contains(w string) bool {
	_, ok := c.corpus[c.normalize(w)]
	return ok
}

// Size returns the number of words in the corpus.
func (c *Catalog) Size() int { return len(c.corpus) }

// Stats returns the number of words per length.
func (c *Catalog) Stats() map[int]int {
	out := make(map[int]int, len(c.byLen))
	for n, b := range c.byLen {
		out[n] = len(b)
	}
	return out
}
