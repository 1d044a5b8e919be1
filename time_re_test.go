package strptime

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
)

func newCTimeRE(t *testing.T, overrides LocaleOverrides) *TimeRE {
	t.Helper()
	return NewTimeRE(newCLocaleTime(t, overrides))
}

func TestFragmentNumericDirectives(t *testing.T) {
	re := newCTimeRE(t, LocaleOverrides{})

	tests := []struct {
		directive byte
		matches   []string
		rejects   []string
	}{
		{'d', []string{"1", "01", "17", "31", " 5"}, []string{"0", "00", "32"}},
		{'H', []string{"0", "00", "09", "23"}, []string{"24"}},
		{'I', []string{"1", "01", "12"}, []string{"0", "00", "13"}},
		{'j', []string{"1", "001", "076", "366"}, []string{"000", "367"}},
		{'m', []string{"1", "03", "12"}, []string{"0", "13"}},
		{'M', []string{"0", "59", "60", "61"}, []string{"62"}},
		{'S', []string{"0", "59", "60", "61"}, []string{"62"}},
		{'U', []string{"0", "00", "53"}, []string{"54"}},
		{'W', []string{"0", "53"}, []string{"60"}},
		{'w', []string{"0", "6"}, []string{"7"}},
		{'y', []string{"00", "99"}, []string{"1", "100"}},
		{'Y', []string{"1", "1999", "0099"}, []string{"10000"}},
	}
	for _, tc := range tests {
		fragment, err := re.Fragment(tc.directive)
		if err != nil {
			t.Fatalf("Fragment(%c): %v", tc.directive, err)
		}
		anchored := regexp.MustCompile("^" + fragment + "$")
		for _, value := range tc.matches {
			if !anchored.MatchString(value) {
				t.Fatalf("%%%c should match %q", tc.directive, value)
			}
		}
		for _, value := range tc.rejects {
			if anchored.MatchString(value) {
				t.Fatalf("%%%c should reject %q", tc.directive, value)
			}
		}
	}
}

func TestFragmentNames(t *testing.T) {
	re := newCTimeRE(t, LocaleOverrides{})

	fragment, err := re.Fragment('B')
	if err != nil {
		t.Fatalf("Fragment(B): %v", err)
	}
	for _, month := range re.LocaleTime().FullMonths()[1:] {
		if !strings.Contains(fragment, month) {
			t.Fatalf("%%B fragment %q missing %q", fragment, month)
		}
	}
	if strings.Contains(fragment, "||") || strings.HasSuffix(fragment, "|)") {
		t.Fatalf("%%B fragment has an empty alternative: %q", fragment)
	}
}

func TestFragmentUnsupportedDirective(t *testing.T) {
	re := newCTimeRE(t, LocaleOverrides{})

	_, err := re.Fragment('Q')
	if !errors.Is(err, ErrUnsupportedDirective) {
		t.Fatalf("expected ErrUnsupportedDirective, got %v", err)
	}
}

func TestFragmentComposite(t *testing.T) {
	re := newCTimeRE(t, LocaleOverrides{})

	fragment, err := re.Fragment('c')
	if err != nil {
		t.Fatalf("Fragment(c): %v", err)
	}
	if strings.Contains(fragment, "%") {
		t.Fatalf("composite fragment still holds directives: %q", fragment)
	}
	for _, group := range []string{"(?P<c_a>", "(?P<c_b>", "(?P<c_d>", "(?P<c_H>", "(?P<c_Y>"} {
		if !strings.Contains(fragment, group) {
			t.Fatalf("composite fragment %q missing %s", fragment, group)
		}
	}
}

func TestAlternationLongestFirst(t *testing.T) {
	got := alternation([]string{"Jun", "June", "", "a.m", "June"})
	want := `June|Jun|a\.m`
	if got != want {
		t.Fatalf("alternation = %q want %q", got, want)
	}

	if got := alternation([]string{"", ""}); got != "" {
		t.Fatalf("alternation of blanks = %q", got)
	}
}

func TestBlankNameTableMatchesEmptyText(t *testing.T) {
	re := newCTimeRE(t, LocaleOverrides{Timezone: []string{"", ""}})

	fragment, err := re.Fragment('Z')
	if err != nil {
		t.Fatalf("Fragment(Z): %v", err)
	}
	if fragment != "(?P<Z>)" {
		t.Fatalf("Fragment(Z) = %q", fragment)
	}

	compiled, err := re.Compile("%Y%Z")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := compiled.match("1999"); !ok {
		t.Fatal("expected blank %Z to match empty text")
	}
}

func TestPatternEscapesLiterals(t *testing.T) {
	re := newCTimeRE(t, LocaleOverrides{})

	compiled, err := re.Compile("[%Y] (%m)+.")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := compiled.match("[1999] (03)+."); !ok {
		t.Fatalf("pattern %q did not match literal text", compiled.Pattern())
	}
	if _, ok := compiled.match("[1999] (03)+x"); ok {
		t.Fatal("dot in format must be literal")
	}
}

func TestPatternEscapesNames(t *testing.T) {
	re := newCTimeRE(t, LocaleOverrides{AMPM: []string{"a. m.", "p. m."}})

	compiled, err := re.Compile("%I %p")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, ok := compiled.match("10 p. m."); !ok {
		t.Fatalf("pattern %q did not match", compiled.Pattern())
	}
	if _, ok := compiled.match("10 pX mX"); ok {
		t.Fatal("name metacharacters must be escaped")
	}
}

func TestPatternWhitespace(t *testing.T) {
	re := newCTimeRE(t, LocaleOverrides{})

	compiled, err := re.Compile("%Y  %m")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, data := range []string{"1999 3", "1999\t03", "1999   12"} {
		if _, ok := compiled.match(data); !ok {
			t.Fatalf("expected %q to match %q", data, compiled.Pattern())
		}
	}
	if _, ok := compiled.match("199903"); ok {
		t.Fatal("whitespace in format requires at least one space")
	}
}

func TestPatternDuplicateDirectives(t *testing.T) {
	re := newCTimeRE(t, LocaleOverrides{})

	pattern, directives, err := re.Pattern("%d %c %d")
	if err != nil {
		t.Fatalf("Pattern: %v", err)
	}
	if !strings.Contains(pattern, "(?P<d>") || !strings.Contains(pattern, "(?P<d_2>") || !strings.Contains(pattern, "(?P<c_d>") {
		t.Fatalf("unexpected group names in %q", pattern)
	}
	if directives[0] != 'd' || directives[len(directives)-1] != 'd' {
		t.Fatalf("directives = %q", directives)
	}
	if _, err := regexp.Compile(pattern); err != nil {
		t.Fatalf("pattern does not compile: %v", err)
	}
}

func TestPatternErrors(t *testing.T) {
	re := newCTimeRE(t, LocaleOverrides{})

	tests := map[string]string{
		"unknown directive": "%Y-%Q",
		"stray percent":     "%Y%",
	}
	for name, format := range tests {
		if _, err := re.Compile(format); !errors.Is(err, ErrUnsupportedDirective) {
			t.Fatalf("%s: expected ErrUnsupportedDirective, got %v", name, err)
		}
	}
}

func TestPatternSelfReferentialComposite(t *testing.T) {
	re := newCTimeRE(t, LocaleOverrides{DateTime: "%x %c", Date: "%d"})

	if _, err := re.Compile("%c"); !errors.Is(err, ErrUnsupportedDirective) {
		t.Fatalf("expected nesting error, got %v", err)
	}
}

func TestCompileMatchesRenderedDirectives(t *testing.T) {
	re := newCTimeRE(t, LocaleOverrides{})
	renderer := NewStrftimeRenderer(time.UTC)
	moment := time.Date(2004, time.February, 5, 13, 5, 9, 0, time.UTC)

	for _, directive := range SupportedDirectives {
		format := "%" + string(directive)
		data, err := renderer.Render(format, moment)
		if err != nil {
			t.Fatalf("Render(%s): %v", format, err)
		}
		compiled, err := re.Compile(format)
		if err != nil {
			t.Fatalf("Compile(%s): %v", format, err)
		}
		if _, ok := compiled.match(data); !ok {
			t.Fatalf("%s: %q does not match %q", format, data, compiled.Pattern())
		}
	}
}

func TestCompileIsCaseInsensitive(t *testing.T) {
	re := newCTimeRE(t, LocaleOverrides{})

	compiled, err := re.Compile("%A %B")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, data := range []string{"monday march", "MONDAY MARCH", "Monday March"} {
		if _, ok := compiled.match(data); !ok {
			t.Fatalf("expected %q to match", data)
		}
	}
}
