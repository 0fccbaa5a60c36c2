package walker

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// hidden reports whether a directory or file name is hidden. Hidden
// directories hold VCS data and the local bookgraph data dir; hidden files
// are editor swaps and AppleDouble copies such as ._books.rdf.
func hidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".") && name != ".."
}

// MatchesInclude reports whether relPath matches one of patterns. An empty
// list includes everything.
func MatchesInclude(relPath string, patterns []string) bool {
	return len(patterns) == 0 || matchesAny(relPath, patterns)
}

// MatchesExclude reports whether relPath matches one of patterns.
func MatchesExclude(relPath string, patterns []string) bool {
	return matchesAny(relPath, patterns)
}

// matchesAny tries each doublestar pattern against the slash form of
// relPath, then against its base name so that "*.owl" excludes at any
// depth.
func matchesAny(relPath string, patterns []string) bool {
	rel := filepath.ToSlash(relPath)
	base := filepath.Base(rel)
	for _, p := range patterns {
		p = filepath.ToSlash(p)
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}
