package cmd

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// hatchRC holds values loaded from a .hatchrc file.
type hatchRC struct {
	Config  string // config file (same as --config / -C)
	Network string // network (same as --network / -n)
}

// loadHatchRC reads a .hatchrc file from dir. Returns nil, nil if not found.
// Format: simple "key = value" pairs, lines starting with # are comments.
func loadHatchRC(dir string) (*hatchRC, error) {
	f, err := os.Open(filepath.Join(dir, ".hatchrc"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rc := &hatchRC{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "config":
			rc.Config = strings.TrimSpace(val)
		case "network":
			rc.Network = strings.TrimSpace(val)
		}
	}
	return rc, scanner.Err()
}
