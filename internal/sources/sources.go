// Package sources finds the Solidity sources of a project.
package sources

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/moby/patternmatcher"
)

// Ext is the extension of Solidity source files.
const Ext = ".sol"

// Source is one Solidity file.
type Source struct {
	// Name is the slash-separated path relative to the sources directory.
	Name string
	// Path is the absolute path.
	Path string
	// Hash is the hex sha256 of the file contents.
	Hash string
}

// Collect returns the .sol files under dir, sorted by name. Files matching an
// ignore pattern (.dockerignore syntax, relative to dir) are skipped, as are
// files inside ignored directories. A missing dir yields no sources.
func Collect(dir string, ignore []string) ([]Source, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var matcher *patternmatcher.PatternMatcher
	if len(ignore) > 0 {
		var err error
		matcher, err = patternmatcher.New(ignore)
		if err != nil {
			return nil, fmt.Errorf("creating pattern matcher: %w", err)
		}
	}

	var sources []Source
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if matcher != nil {
			match, err := matcher.MatchesOrParentMatches(rel)
			if err != nil {
				return err
			}
			if match {
				if d.IsDir() && !matcher.Exclusions() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), Ext) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}
		sources = append(sources, Source{
			Name: filepath.ToSlash(rel),
			Path: path,
			Hash: fmt.Sprintf("%x", sha256.Sum256(data)),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking sources: %w", err)
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources, nil
}

// Fingerprint hashes the names and contents of sources. It changes whenever
// a file is added, removed, renamed or edited.
func Fingerprint(sources []Source) string {
	h := sha256.New()
	for _, s := range sources {
		_, _ = fmt.Fprintf(h, "%s\n%s\n", s.Name, s.Hash)
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
