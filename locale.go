package strptime

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

// LocaleSource reports the locale identifier currently in effect. It is
// consulted on every parse so that a locale change selects a fresh table.
type LocaleSource func() string

// StaticLocale returns a LocaleSource that always reports locale.
func StaticLocale(locale string) LocaleSource {
	normalized := normalizeLocale(locale)
	return func() string {
		return normalized
	}
}

// EnvLocale reads the LC_TIME category from the environment using POSIX
// precedence (LC_ALL, LC_TIME, LANG). The C and POSIX locales report "".
func EnvLocale() string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if value := os.Getenv(key); value != "" {
			return normalizeLocale(value)
		}
	}
	return ""
}

// normalizeLocale turns POSIX style identifiers such as en_US.UTF-8@euro into
// BCP 47 style en-US. Unknown shapes are returned trimmed.
func normalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if idx := strings.IndexAny(locale, ".@"); idx >= 0 {
		locale = locale[:idx]
	}
	switch locale {
	case "C", "POSIX":
		return ""
	}
	return strings.ReplaceAll(locale, "_", "-")
}

func localeParentTag(locale string) string {
	if locale == "" {
		return ""
	}

	tag, err := language.Parse(locale)
	if err == nil {
		parent := tag.Parent()
		if parent == language.Und {
			return ""
		}
		value := parent.String()
		if value == "" || value == "und" {
			return ""
		}
		return value
	}

	if idx := strings.LastIndex(locale, "-"); idx > 0 {
		return locale[:idx]
	}

	return ""
}

// localeCandidates returns locale followed by its parents, closest first.
func localeCandidates(locale string) []string {
	if locale == "" {
		return nil
	}

	chain := []string{locale}
	seen := map[string]struct{}{locale: {}}

	if tag, err := language.Parse(locale); err == nil {
		for parent := tag.Parent(); parent != language.Und; parent = parent.Parent() {
			value := parent.String()
			if value == "" || value == "und" {
				break
			}
			if _, exists := seen[value]; exists {
				break
			}
			seen[value] = struct{}{}
			chain = append(chain, value)
		}
	}

	for current := localeParentTag(locale); current != ""; current = localeParentTag(current) {
		if _, exists := seen[current]; exists {
			continue
		}
		seen[current] = struct{}{}
		chain = append(chain, current)
	}

	return chain
}
