// Package assets bundles the default word lists and the SQL migrations
// into the binary so the game runs without any files on disk.
package assets

import (
	"bufio"
	"embed"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed wordlists/*.txt
var wordlists embed.FS

//go:embed sql/*.sql
var migrations embed.FS

// WordListName returns the file name used for the list of n-letter words.
func WordListName(n int) string {
	return fmt.Sprintf("words_%d.txt", n)
}

// ReadLines returns the non-empty, non-comment lines of an open word list.
// Lines are trimmed but otherwise left as written.
func ReadLines(f fs.File) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// WordList returns the embedded list of n-letter words.
// The error wraps fs.ErrNotExist when no list is bundled for n.
func WordList(n int) ([]string, error) {
	f, err := wordlists.Open("wordlists/" + WordListName(n))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

// Migrations exposes the embedded *.sql files rooted at the sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		// fs.Sub only fails on an invalid path, which is a constant here.
		panic(err)
	}
	return sub
}
