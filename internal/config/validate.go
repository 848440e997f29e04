package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// ValidationError describes one problem in a user config.
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e ValidationError) String() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// ValidationErrors is returned when a user config fails validation.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	lines := make([]string, len(e))
	for i, ve := range e {
		lines[i] = "  * " + ve.String()
	}
	return "invalid config:\n" + strings.Join(lines, "\n")
}

// Validate checks the fields the core understands. Plugins validate their
// own settings through the validateUserConfig hook.
func Validate(uc *UserConfig) []ValidationError {
	if uc == nil {
		return nil
	}

	var errs []ValidationError
	for _, name := range slices.Sorted(maps.Keys(uc.Networks)) {
		n := uc.Networks[name]
		path := "networks." + name
		switch n.Type {
		case "", NetworkTypeHTTP:
			if n.URL.IsZero() {
				errs = append(errs, ValidationError{Path: path + ".url", Message: "url is required for http networks"})
			}
		default:
			errs = append(errs, ValidationError{Path: path + ".type", Message: fmt.Sprintf("unsupported network type %q", n.Type)})
		}
		if n.Timeout != "" {
			if d, err := time.ParseDuration(n.Timeout); err != nil || d <= 0 {
				errs = append(errs, ValidationError{Path: path + ".timeout", Message: fmt.Sprintf("invalid duration %q", n.Timeout)})
			}
		}
	}

	if uc.DefaultNetwork != "" && uc.DefaultNetwork != DefaultNetworkName {
		if _, ok := uc.Networks[uc.DefaultNetwork]; !ok {
			errs = append(errs, ValidationError{Path: "defaultNetwork", Message: fmt.Sprintf("network %q is not defined", uc.DefaultNetwork)})
		}
	}

	seen := make(map[string]bool, len(uc.Plugins))
	for i, id := range uc.Plugins {
		path := fmt.Sprintf("plugins[%d]", i)
		switch {
		case id == "":
			errs = append(errs, ValidationError{Path: path, Message: "plugin ID is empty"})
		case seen[id]:
			errs = append(errs, ValidationError{Path: path, Message: fmt.Sprintf("plugin %q listed twice", id)})
		}
		seen[id] = true
	}

	return errs
}
