package strptime

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// OverrideSet maps locale identifiers to table overrides. The "" entry
// applies to every locale without a closer match.
type OverrideSet map[string]LocaleOverrides

// Resolve layers the overrides for locale on top of those of its parents and
// the "" default, closest locale winning per field.
func (s OverrideSet) Resolve(locale string) LocaleOverrides {
	return s.resolveChain(localeCandidates(normalizeLocale(locale)))
}

func (s OverrideSet) resolveChain(chain []string) LocaleOverrides {
	if len(s) == 0 {
		return LocaleOverrides{}
	}

	resolved := s[""]
	for i := len(chain) - 1; i >= 0; i-- {
		if override, ok := s[chain[i]]; ok {
			resolved = override.merge(resolved)
		}
	}
	return resolved
}

// Validate checks every entry in the set.
func (s OverrideSet) Validate() error {
	for locale, override := range s {
		if err := override.Validate(); err != nil {
			return fmt.Errorf("strptime: overrides for %q: %w", locale, err)
		}
	}
	return nil
}

// LoadOverrides reads an OverrideSet from a JSON or YAML file, chosen by
// extension. Locale keys are normalised.
func LoadOverrides(path string) (OverrideSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("strptime: read %s: %w", path, err)
	}

	raw, err := decodeOverrides(path, data)
	if err != nil {
		return nil, fmt.Errorf("strptime: decode %s: %w", path, err)
	}

	set := make(OverrideSet, len(raw))
	for locale, override := range raw {
		key := normalizeLocale(locale)
		if _, exists := set[key]; exists {
			return nil, fmt.Errorf("strptime: duplicate locale %q in %s", key, path)
		}
		set[key] = override
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

func decodeOverrides(path string, data []byte) (map[string]LocaleOverrides, error) {
	var raw map[string]LocaleOverrides

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported extension %s", ext)
	}
	return raw, nil
}
