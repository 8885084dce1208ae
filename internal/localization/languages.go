// Package localization knows which languages the exchange supports.
// Users can only sign up with native and learning languages from this set.
package localization

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// DefaultLanguages is used when no language file is configured.
// NOTE: when more languages are added to the system, ship them in the
// configured JSON file rather than extending this list.
var DefaultLanguages = []string{"English", "French"}

// Languages holds the supported language set.
type Languages struct {
	supported map[string]bool
	mu        sync.RWMutex
}

// NewLanguages creates the language set from a JSON file containing an
// array of language names. An empty path selects the built-in defaults.
func NewLanguages(path string) (*Languages, error) {
	l := &Languages{supported: make(map[string]bool)}

	names := DefaultLanguages
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read language file: %w", err)
		}
		if err := json.Unmarshal(data, &names); err != nil {
			return nil, fmt.Errorf("failed to parse language file %s: %w", path, err)
		}
	}

	for _, name := range names {
		l.supported[name] = true
	}
	return l, nil
}

// IsSupported reports whether the named language is available.
func (l *Languages) IsSupported(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.supported[name]
}

// Validate checks every name in the given lists against the supported set.
func (l *Languages) Validate(lists ...[]string) error {
	for _, list := range lists {
		for _, name := range list {
			if !l.IsSupported(name) {
				return fmt.Errorf("language %q is not supported", name)
			}
		}
	}
	return nil
}
