// internal/words/source.go
//
// Word sources feed the catalog one length bucket at a time.
// A source only needs to answer "what are the n-letter words?"; where the
// text comes from (embedded files, a directory on disk, a test map) is its
// own business.

package words

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/robalobadob/decryption/assets"
)

// ErrNotFound is returned by a Source that has no list for a length.
var ErrNotFound = errors.New("words: list not found")

// Source supplies the raw word list for a given word length.
type Source interface {
	Words(length int) ([]string, error)
}

// EmbeddedSource serves the lists compiled into the binary.
type EmbeddedSource struct{}

// Words implements Source.
func (EmbeddedSource) Words(length int) ([]string, error) {
	list, err := assets.WordList(length)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return list, err
}

// DirSource reads words_<n>.txt files from a directory.
type DirSource struct {
	fsys fs.FS
}

// NewDirSource returns a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{fsys: os.DirFS(dir)}
}

// Words implements Source.
func (d *DirSource) Words(length int) ([]string, error) {
	f, err := d.fsys.Open(assets.WordListName(length))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open list %d: %w", length, err)
	}
	defer f.Close()
	return assets.ReadLines(f)
}

// MapSource is an in-memory source keyed by length.
type MapSource map[int][]string

// Words implements Source.
func (m MapSource) Words(length int) ([]string, error) {
	list, ok := m[length]
	if !ok {
		return nil, ErrNotFound
	}
	return list, nil
}
