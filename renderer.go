package strptime

import (
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// Renderer formats t using a strftime style format. It is the locale facility
// LocaleTime harvests its name tables from.
type Renderer interface {
	Render(format string, t time.Time) (string, error)
}

// RendererFunc adapts a bare function to Renderer.
type RendererFunc func(format string, t time.Time) (string, error)

// Render implements Renderer for RendererFunc
func (fn RendererFunc) Render(format string, t time.Time) (string, error) {
	return fn(format, t)
}

// CompositeSource is implemented by renderers that know the composite
// formats behind %c, %x and %X directly, which spares the reverse mapping of
// rendered output.
type CompositeSource interface {
	CompositeFormat(directive byte) (string, bool)
}

type strftimeRenderer struct {
	loc *time.Location
}

var _ Renderer = &strftimeRenderer{}

// NewStrftimeRenderer renders through github.com/lestrrat-go/strftime, which
// follows the POSIX C locale. Times are converted to loc before rendering.
func NewStrftimeRenderer(loc *time.Location) Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &strftimeRenderer{loc: loc}
}

func (r *strftimeRenderer) Render(format string, t time.Time) (string, error) {
	return strftime.Format(format, inLocation(t, r.loc))
}

// inLocation re-anchors the wall clock of t in loc. Reference dates are
// calendar values, so their fields must survive the move unchanged.
func inLocation(t time.Time, loc *time.Location) time.Time {
	if loc == nil || t.Location() == loc {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

type bundleRenderer struct {
	locale string
	bundle calendarBundle
	loc    *time.Location
}

var (
	_ Renderer        = &bundleRenderer{}
	_ CompositeSource = &bundleRenderer{}
)

// NewLocaleRenderer picks the bundled calendar names closest to locale and
// falls back to the C locale renderer when none match.
func NewLocaleRenderer(locale string, loc *time.Location) Renderer {
	return newChainRenderer(localeCandidates(normalizeLocale(locale)), loc)
}

func newChainRenderer(chain []string, loc *time.Location) Renderer {
	if loc == nil {
		loc = time.Local
	}
	for _, candidate := range chain {
		if bundle, ok := calendarBundles[candidate]; ok {
			return &bundleRenderer{locale: candidate, bundle: bundle, loc: loc}
		}
	}
	return NewStrftimeRenderer(loc)
}

// BundledLocales lists the locales with built in calendar names.
func BundledLocales() []string {
	return append([]string(nil), bundledLocales...)
}

func (r *bundleRenderer) CompositeFormat(directive byte) (string, bool) {
	switch directive {
	case 'c':
		return r.bundle.DateTime, r.bundle.DateTime != ""
	case 'x':
		return r.bundle.Date, r.bundle.Date != ""
	case 'X':
		return r.bundle.Time, r.bundle.Time != ""
	}
	return "", false
}

func (r *bundleRenderer) Render(format string, t time.Time) (string, error) {
	return r.render(format, inLocation(t, r.loc), 0)
}

func (r *bundleRenderer) render(format string, t time.Time, depth int) (string, error) {
	if depth > maxCompositeDepth {
		return "", fmt.Errorf("strptime: composite format nesting too deep in %q", format)
	}

	var b strings.Builder
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' {
			b.WriteByte(ch)
			continue
		}
		if i+1 >= len(format) {
			return "", &UnsupportedDirectiveError{Format: format}
		}
		i++
		directive := format[i]

		switch directive {
		case 'a':
			b.WriteString(r.bundle.ShortDays[mondayFirst(int(t.Weekday()))])
		case 'A':
			b.WriteString(r.bundle.Days[mondayFirst(int(t.Weekday()))])
		case 'b':
			b.WriteString(r.bundle.ShortMonths[t.Month()-1])
		case 'B':
			b.WriteString(r.bundle.Months[t.Month()-1])
		case 'p':
			if t.Hour() < 12 {
				b.WriteString(r.bundle.DayPeriods[0])
			} else {
				b.WriteString(r.bundle.DayPeriods[1])
			}
		case 'c', 'x', 'X':
			composite, ok := r.CompositeFormat(directive)
			if !ok {
				return "", &UnsupportedDirectiveError{Directive: string(directive), Format: format}
			}
			out, err := r.render(composite, t, depth+1)
			if err != nil {
				return "", err
			}
			b.WriteString(out)
		default:
			out, err := strftime.Format("%"+string(directive), t)
			if err != nil {
				return "", fmt.Errorf("strptime: render %%%c for %s: %w", directive, r.locale, err)
			}
			b.WriteString(out)
		}
	}
	return b.String(), nil
}
