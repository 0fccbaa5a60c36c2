// Package walker finds RDF files to import from paths, directories and
// glob patterns.
package walker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxFileSize is the maximum file size to process (64 MB).
const DefaultMaxFileSize int64 = 64 << 20

// RDFExtensions are the file extensions treated as RDF documents.
var RDFExtensions = []string{".rdf", ".owl", ".xml", ".ttl", ".turtle", ".nt"}

// FileInfo holds metadata about a single file discovered during traversal.
type FileInfo struct {
	Path        string // Path on disk.
	RelPath     string // Path relative to the directory or pattern root.
	Size        int64  // File size in bytes.
	ContentHash string // SHA-256 hex digest of the file content.
}

// WalkerConfig controls the behaviour of the Walk function.
type WalkerConfig struct {
	RootDir     string   // Root directory to walk.
	Include     []string // Glob patterns; only matching files are included.
	Exclude     []string // Glob patterns; matching files are excluded.
	MaxFileSize int64    // Files larger than this are skipped (0 = use default).
}

// Walk traverses the directory tree rooted at config.RootDir and returns
// every RDF file that passes filtering.
func Walk(config WalkerConfig) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}

	var files []FileInfo

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		if d.IsDir() {
			if path != root && hidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || hidden(d.Name()) || !IsRDF(d.Name()) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if !MatchesInclude(relPath, config.Include) || MatchesExclude(relPath, config.Exclude) {
			return nil
		}

		fi, ok := describe(path, relPath, config.MaxFileSize)
		if ok {
			files = append(files, fi)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	return files, nil
}

// Expand resolves command line arguments to RDF files. An argument may be
// a file, a directory (walked recursively) or a doublestar pattern such
// as data/**/*.ttl. Files with identical content are returned once.
func Expand(args []string, exclude []string) ([]FileInfo, error) {
	var out []FileInfo
	seen := make(map[string]bool)
	add := func(fi FileInfo) {
		if !seen[fi.ContentHash] {
			seen[fi.ContentHash] = true
			out = append(out, fi)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			files, err := Walk(WalkerConfig{RootDir: arg, Exclude: exclude})
			if err != nil {
				return nil, err
			}
			for _, fi := range files {
				add(fi)
			}

		case err == nil:
			if fi, ok := describe(arg, filepath.Base(arg), 0); ok {
				add(fi)
			}

		default:
			matches, globErr := doublestar.FilepathGlob(arg)
			if globErr != nil {
				return nil, fmt.Errorf("walker: bad pattern %q: %w", arg, globErr)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("walker: %s: no such file or matching files", arg)
			}
			sort.Strings(matches)
			base, _ := doublestar.SplitPattern(filepath.ToSlash(arg))
			for _, m := range matches {
				rel, relErr := filepath.Rel(base, m)
				if relErr != nil {
					rel = m
				}
				if !IsRDF(m) || hidden(filepath.Base(m)) || MatchesExclude(rel, exclude) {
					continue
				}
				if fi, ok := describe(m, rel, 0); ok {
					add(fi)
				}
			}
		}
	}
	return out, nil
}

// IsRDF reports whether name has one of the RDFExtensions.
func IsRDF(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range RDFExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func describe(path, relPath string, maxSize int64) (FileInfo, bool) {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() > maxSize {
		return FileInfo{}, false
	}
	hash, err := hashFile(path)
	if err != nil {
		return FileInfo{}, false
	}
	return FileInfo{
		Path:        path,
		RelPath:     filepath.ToSlash(relPath),
		Size:        info.Size(),
		ContentHash: hash,
	}, true
}

// hashFile returns the SHA-256 hex digest of a file's content.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
