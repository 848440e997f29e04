// Package project locates the hatch project a command runs in.
package project

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fgrehm/hatch/internal/config"
)

// ErrNoProject is returned when no hatch config is found walking up from the
// start directory.
var ErrNoProject = errors.New("no hatch project found (looked for " + config.TOMLFile + " and " + config.JSONFile + ")")

// Project holds the outcome of project resolution.
type Project struct {
	// Root is the absolute path to the project root directory.
	Root string

	// ConfigPath is the absolute path to the config file.
	ConfigPath string

	// ID is a slug derived from the root directory name.
	ID string
}

// Resolve walks up from startDir looking for hatch.toml or hatch.json.
func Resolve(startDir string) (*Project, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("resolving start directory: %w", err)
	}

	dir := absDir
	for {
		configPath, err := config.Find(dir)
		if err != nil {
			return nil, fmt.Errorf("searching for hatch config: %w", err)
		}
		if configPath != "" {
			return &Project{
				Root:       dir,
				ConfigPath: configPath,
				ID:         Slugify(filepath.Base(dir)),
			}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNoProject
		}
		dir = parent
	}
}

// ResolveConfig resolves the project of an explicitly given config file
// (bypasses the walk-up). The project root is the file's directory.
func ResolveConfig(configPath string) (*Project, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s does not exist", absPath)
		}
		return nil, fmt.Errorf("checking config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", absPath)
	}

	root := filepath.Dir(absPath)
	return &Project{
		Root:       root,
		ConfigPath: absPath,
		ID:         Slugify(filepath.Base(root)),
	}, nil
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)

// Slugify converts a project directory name into a project ID.
// Rules: lowercase, replace non-alphanumeric with hyphens, trim hyphens,
// truncate to 48 chars with hash suffix if longer.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if slug == "" {
		slug = "project"
	}

	const maxLen = 48
	if len(slug) > maxLen {
		hash := fmt.Sprintf("%x", sha256.Sum256([]byte(name)))
		slug = slug[:40] + "-" + hash[:7]
	}

	return slug
}
