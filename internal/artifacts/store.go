// Package artifacts stores compilation artifacts on disk, one JSON file per
// contract.
package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const (
	artifactExt = ".json"
	lockFile    = ".hatch.lock"

	lockRetryDelay = 50 * time.Millisecond
)

// ErrArtifactNotFound is returned when a contract has no artifact.
var ErrArtifactNotFound = errors.New("artifact not found")

// Artifact is the build output for one contract.
type Artifact struct {
	ContractName     string          `json:"contractName"`
	SourceName       string          `json:"sourceName"`
	ABI              json.RawMessage `json:"abi"`
	Bytecode         string          `json:"bytecode"`
	DeployedBytecode string          `json:"deployedBytecode"`
}

// Store manages artifacts in a directory. Writers take a file lock so
// concurrent hatch processes don't interleave.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created on first
// write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the artifacts directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes an artifact, replacing any previous one for the contract.
func (s *Store) Save(ctx context.Context, a *Artifact) error {
	if err := validName(a.ContractName); err != nil {
		return err
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling artifact: %w", err)
	}

	return s.withLock(ctx, func() error {
		path := s.path(a.ContractName)
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return fmt.Errorf("writing artifact: %w", err)
		}
		if err := os.Rename(tmp, path); err != nil {
			return fmt.Errorf("writing artifact: %w", err)
		}
		return nil
	})
}

// Load reads the artifact of a contract.
func (s *Store) Load(contractName string) (*Artifact, error) {
	if err := validName(contractName); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(contractName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrArtifactNotFound
		}
		return nil, fmt.Errorf("reading artifact: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("unmarshaling artifact: %w", err)
	}
	return &a, nil
}

// List returns the names of all stored contracts, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, artifactExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, artifactExt))
	}
	sort.Strings(names)
	return names, nil
}

// Exists checks if a contract has an artifact.
func (s *Store) Exists(contractName string) bool {
	_, err := os.Stat(s.path(contractName))
	return err == nil
}

// Clean removes every artifact. The directory itself is kept.
func (s *Store) Clean(ctx context.Context) error {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return nil
	}
	return s.withLock(ctx, func() error {
		names, err := s.List()
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("removing artifact %s: %w", name, err)
			}
		}
		return nil
	})
}

// withLock runs fn while holding the store's file lock.
func (s *Store) withLock(ctx context.Context, fn func() error) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating artifacts directory: %w", err)
	}

	lock := flock.New(filepath.Join(s.dir, lockFile))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("locking artifacts directory: %w", err)
	}
	if !locked {
		return fmt.Errorf("locking artifacts directory: lock not acquired")
	}
	defer func() { _ = lock.Unlock() }()

	return fn()
}

func (s *Store) path(contractName string) string {
	return filepath.Join(s.dir, contractName+artifactExt)
}

func validName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid contract name %q", name)
	}
	return nil
}
