package strptime

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"
	"unicode/utf8"
)

const maxCompositeDepth = 4

// numericBodies bound every numeric directive to its calendar range.
// Alternatives are ordered so the longest valid run is preferred.
var numericBodies = map[byte]string{
	'd': `3[01]|[12]\d|0[1-9]|[1-9]| [1-9]`,
	'H': `2[0-3]|[01]\d|\d`,
	'I': `1[0-2]|0[1-9]|[1-9]`,
	'j': `36[0-6]|3[0-5]\d|[12]\d\d|0[1-9]\d|00[1-9]|[1-9]\d|0[1-9]|[1-9]`,
	'm': `1[0-2]|0[1-9]|[1-9]`,
	'M': `6[01]|[0-5]\d|\d`,
	'S': `6[01]|[0-5]\d|\d`,
	'U': `5[0-3]|[0-4]\d|\d`,
	'W': `5[0-3]|[0-4]\d|\d`,
	'w': `[0-6]`,
	'y': `\d\d`,
	'Y': `\d{1,4}`,
}

// harvests numbers every TimeRE so compilations of a re-harvested locale
// never share cache entries with the previous table.
var harvests atomic.Uint64

// SupportedDirectives lists every directive a format string may use.
const SupportedDirectives = "aAbBcdHIjmMpSUwWxXyYZ%"

// TimeRE maps directives onto regular expression fragments derived from one
// LocaleTime. It is read-only after construction and safe to share.
type TimeRE struct {
	locale     *LocaleTime
	bodies     map[byte]string
	generation uint64

	compositeOnce [3]sync.Once
	composites    [3]compositeFragment
}

type compositeFragment struct {
	pattern string
	err     error
}

// CompiledFormat is a format string compiled against one locale.
type CompiledFormat struct {
	Format     string
	Lang       string
	re         *regexp.Regexp
	directives []byte
	locale     *LocaleTime
}

// Pattern returns the regular expression source.
func (c *CompiledFormat) Pattern() string { return c.re.String() }

// Directives returns the directive captured by each group, in order.
func (c *CompiledFormat) Directives() []byte {
	return append([]byte(nil), c.directives...)
}

// match returns the captured text per directive in group order, or false.
func (c *CompiledFormat) match(data string) ([]string, bool) {
	groups := c.re.FindStringSubmatch(data)
	if groups == nil {
		return nil, false
	}
	return groups[1:], true
}

// NewTimeRE derives the directive fragments for lt.
func NewTimeRE(lt *LocaleTime) *TimeRE {
	bodies := make(map[byte]string, len(numericBodies)+6)
	for directive, body := range numericBodies {
		bodies[directive] = body
	}
	bodies['a'] = alternation(lt.abbrWeekdays)
	bodies['A'] = alternation(lt.fullWeekdays)
	bodies['b'] = alternation(lt.abbrMonths)
	bodies['B'] = alternation(lt.fullMonths)
	bodies['p'] = alternation(lt.ampm[:])
	bodies['Z'] = alternation(lt.timezone[:])

	return &TimeRE{locale: lt, bodies: bodies, generation: harvests.Add(1)}
}

// LocaleTime returns the table the fragments were built from.
func (t *TimeRE) LocaleTime() *LocaleTime { return t.locale }

// Fragment returns the capture group for a single directive. Composite
// directives expand to their locale format with group names prefixed by the
// composite, e.g. c_H.
func (t *TimeRE) Fragment(directive byte) (string, error) {
	if directive == '%' {
		return "%", nil
	}
	if idx := compositeSlot(directive); idx >= 0 {
		t.compositeOnce[idx].Do(func() {
			pattern, _, err := t.expand(t.locale.composite(directive), string(directive)+"_")
			t.composites[idx] = compositeFragment{pattern: pattern, err: err}
		})
		return t.composites[idx].pattern, t.composites[idx].err
	}
	body, ok := t.bodies[directive]
	if !ok {
		return "", &UnsupportedDirectiveError{Directive: string(directive), Format: "%" + string(directive)}
	}
	return "(?P<" + string(directive) + ">" + body + ")", nil
}

// Pattern converts format into regular expression source, returning the
// directive behind each capture group in order.
func (t *TimeRE) Pattern(format string) (string, []byte, error) {
	return t.expand(format, "")
}

// Compile anchors the pattern for format to the whole input and matches
// case-insensitively.
func (t *TimeRE) Compile(format string) (*CompiledFormat, error) {
	pattern, directives, err := t.Pattern(format)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(`^(?i:` + pattern + `)$`)
	if err != nil {
		return nil, err
	}
	return &CompiledFormat{
		Format:     format,
		Lang:       t.locale.lang,
		re:         re,
		directives: directives,
		locale:     t.locale,
	}, nil
}

type patternBuilder struct {
	t          *TimeRE
	b          strings.Builder
	names      map[string]int
	directives []byte
}

func (t *TimeRE) expand(format, prefix string) (string, []byte, error) {
	pb := &patternBuilder{t: t, names: make(map[string]int)}
	if err := pb.write(format, format, prefix, 0); err != nil {
		return "", nil, err
	}
	return pb.b.String(), pb.directives, nil
}

func (pb *patternBuilder) write(format, root, prefix string, depth int) error {
	if depth > maxCompositeDepth {
		return &UnsupportedDirectiveError{Directive: "c", Format: root}
	}

	for i := 0; i < len(format); {
		ch := format[i]
		switch {
		case ch == '%':
			if i+1 >= len(format) {
				return &UnsupportedDirectiveError{Format: root}
			}
			if err := pb.directive(format[i+1], root, prefix, depth); err != nil {
				return err
			}
			i += 2
		case isSpace(ch):
			for i < len(format) && isSpace(format[i]) {
				i++
			}
			pb.b.WriteString(`\s+`)
		default:
			start := i
			for i < len(format) && format[i] != '%' && !isSpace(format[i]) {
				i++
			}
			pb.b.WriteString(regexp.QuoteMeta(format[start:i]))
		}
	}
	return nil
}

func (pb *patternBuilder) directive(directive byte, root, prefix string, depth int) error {
	if directive == '%' {
		pb.b.WriteString("%")
		return nil
	}
	if compositeSlot(directive) >= 0 {
		nested := prefix + string(directive) + "_"
		return pb.write(pb.t.locale.composite(directive), root, nested, depth+1)
	}

	body, ok := pb.t.bodies[directive]
	if !ok {
		return &UnsupportedDirectiveError{Directive: directiveString(directive), Format: root}
	}

	name := prefix + string(directive)
	pb.names[name]++
	if n := pb.names[name]; n > 1 {
		name += "_" + strconv.Itoa(n)
	}

	pb.b.WriteString("(?P<")
	pb.b.WriteString(name)
	pb.b.WriteString(">")
	pb.b.WriteString(body)
	pb.b.WriteString(")")
	pb.directives = append(pb.directives, directive)
	return nil
}

// alternation joins names longest first so that a name which prefixes
// another never shadows it. Empty names are left out.
func alternation(names []string) string {
	candidates := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		candidates = append(candidates, name)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return utf8.RuneCountInString(candidates[i]) > utf8.RuneCountInString(candidates[j])
	})
	for i, name := range candidates {
		candidates[i] = regexp.QuoteMeta(name)
	}
	return strings.Join(candidates, "|")
}

func compositeSlot(directive byte) int {
	switch directive {
	case 'c':
		return 0
	case 'x':
		return 1
	case 'X':
		return 2
	}
	return -1
}

func isSpace(ch byte) bool {
	return ch < utf8.RuneSelf && unicode.IsSpace(rune(ch))
}

// directiveString renders a directive byte for error messages, keeping
// non-printable bytes readable.
func directiveString(directive byte) string {
	if directive < utf8.RuneSelf && unicode.IsPrint(rune(directive)) {
		return string(directive)
	}
	return strconv.QuoteRuneToASCII(rune(directive))
}
