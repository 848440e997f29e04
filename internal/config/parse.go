package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
)

// Config file names, in lookup order.
const (
	TOMLFile = "hatch.toml"
	JSONFile = "hatch.json"
)

// ErrNotFound is returned when a folder holds no config file.
var ErrNotFound = errors.New("no hatch config file found")

// Find looks for a config file directly in folder.
// Search order:
//  1. hatch.toml
//  2. hatch.json
//
// Returns the absolute path to the config file, or empty string if not found.
func Find(folder string) (string, error) {
	absFolder, err := filepath.Abs(folder)
	if err != nil {
		return "", fmt.Errorf("resolving folder path: %w", err)
	}

	for _, name := range []string{TOMLFile, JSONFile} {
		p := filepath.Join(absFolder, name)
		if fileExists(p) {
			return p, nil
		}
	}
	return "", nil
}

// Parse reads a config file. The format follows the file extension: .toml
// files are TOML, everything else is JSON with comments and trailing commas.
func Parse(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var uc *UserConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		uc, err = ParseTOML(data)
	} else {
		uc, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return uc, nil
}

// ParseTOML parses TOML config content.
func ParseTOML(data []byte) (*UserConfig, error) {
	var uc UserConfig
	md, err := toml.Decode(string(data), &uc)
	if err != nil {
		return nil, err
	}
	var unknown []string
	for _, k := range md.Undecoded() {
		// Keys consumed by Var.UnmarshalTOML may not be marked as decoded.
		if len(k) > 0 && k[len(k)-1] == "var" {
			continue
		}
		unknown = append(unknown, k.String())
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(unknown, ", "))
	}
	return &uc, nil
}

// ParseJSON parses JSON config content. Supports JSONC (comments and
// trailing commas).
func ParseJSON(data []byte) (*UserConfig, error) {
	cleaned := jsonc.ToJSON(data)

	var uc UserConfig
	dec := json.NewDecoder(strings.NewReader(string(cleaned)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&uc); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &uc, nil
}

// FindAndParse finds a config file in folder and parses it.
// Returns ErrNotFound if no config file is found.
func FindAndParse(folder string) (*UserConfig, error) {
	path, err := Find(folder)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, ErrNotFound
	}
	return Parse(path)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
