// Package archive lists and evicts the agent's archived messages.
//
// The archive directory holds one pair of files per archived message unit:
//
//	<base>_<token>.idx    index
//	<base>_<token>.iomsg  data (may already be gone)
//
// The token is a chronologically monotonic string, so lexical order of
// tokens is creation order.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// IndexExt is the extension of index files.
	IndexExt = ".idx"
	// DataExt is the extension of data files.
	DataExt = ".iomsg"
)

// Pair is one archived message unit.
type Pair struct {
	// Stem is the file name up to the first '.', shared by both files.
	Stem string
	// Token is the sortable timestamp taken from the index file name.
	Token string
	// IndexPath and DataPath are absolute paths of the two halves.
	IndexPath string
	DataPath  string
}

// splitIndexName reports whether name is an index file and returns its stem
// and token. Only names whose extension, counted from the first '.', is
// exactly ".idx" qualify. The token runs from after the first '_' to the
// first '.'; without an '_' it is the whole stem.
func splitIndexName(name string) (stem, token string, ok bool) {
	dot := strings.IndexByte(name, '.')
	if dot < 0 || name[dot:] != IndexExt {
		return "", "", false
	}
	stem = name[:dot]
	token = stem
	if us := strings.IndexByte(stem, '_'); us >= 0 {
		token = stem[us+1:]
	}
	return stem, token, true
}

// ListPairs returns the archive pairs found directly in dir, oldest first.
// Ties on token keep directory order.
func ListPairs(dir string) ([]Pair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("archive: read dir %s: %w", dir, err)
	}

	var pairs []Pair
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stem, token, ok := splitIndexName(e.Name())
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{
			Stem:      stem,
			Token:     token,
			IndexPath: filepath.Join(dir, e.Name()),
			DataPath:  filepath.Join(dir, stem+DataExt),
		})
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Token < pairs[j].Token })
	return pairs, nil
}
