package strptime

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// LocaleOverrides replaces harvested locale values. Nil slices and empty
// strings leave the corresponding value to be harvested from the renderer.
type LocaleOverrides struct {
	FullWeekdays []string `json:"full_weekdays,omitempty" yaml:"full_weekdays,omitempty"`
	AbbrWeekdays []string `json:"abbr_weekdays,omitempty" yaml:"abbr_weekdays,omitempty"`
	FullMonths   []string `json:"full_months,omitempty" yaml:"full_months,omitempty"`
	AbbrMonths   []string `json:"abbr_months,omitempty" yaml:"abbr_months,omitempty"`
	AMPM         []string `json:"am_pm,omitempty" yaml:"am_pm,omitempty"`
	Timezone     []string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	DateTime     string   `json:"date_time,omitempty" yaml:"date_time,omitempty"`
	Date         string   `json:"date,omitempty" yaml:"date,omitempty"`
	Time         string   `json:"time,omitempty" yaml:"time,omitempty"`
}

// Validate checks every provided sequence against its fixed length.
func (o LocaleOverrides) Validate() error {
	checks := []struct {
		field  string
		values []string
		want   int
	}{
		{"full_weekdays", o.FullWeekdays, 7},
		{"abbr_weekdays", o.AbbrWeekdays, 7},
		{"full_months", o.FullMonths, 12},
		{"abbr_months", o.AbbrMonths, 12},
		{"am_pm", o.AMPM, 2},
		{"timezone", o.Timezone, 2},
	}
	for _, check := range checks {
		if check.values == nil {
			continue
		}
		if len(check.values) != check.want {
			return &ValidationError{Field: check.field, Want: check.want, Got: len(check.values)}
		}
	}
	return nil
}

// merge layers o over base, field by field.
func (o LocaleOverrides) merge(base LocaleOverrides) LocaleOverrides {
	out := base
	if o.FullWeekdays != nil {
		out.FullWeekdays = o.FullWeekdays
	}
	if o.AbbrWeekdays != nil {
		out.AbbrWeekdays = o.AbbrWeekdays
	}
	if o.FullMonths != nil {
		out.FullMonths = o.FullMonths
	}
	if o.AbbrMonths != nil {
		out.AbbrMonths = o.AbbrMonths
	}
	if o.AMPM != nil {
		out.AMPM = o.AMPM
	}
	if o.Timezone != nil {
		out.Timezone = o.Timezone
	}
	if o.DateTime != "" {
		out.DateTime = o.DateTime
	}
	if o.Date != "" {
		out.Date = o.Date
	}
	if o.Time != "" {
		out.Time = o.Time
	}
	return out
}

// Reference calendar used for harvesting. 1999-03-17 is a Wednesday and the
// 76th day of the year; each field renders to a distinct number.
var (
	referenceMonday = time.Date(1999, time.March, 15, 22, 44, 55, 0, time.UTC)
	magicDate       = time.Date(1999, time.March, 17, 22, 44, 55, 0, time.UTC)
	morningDate     = time.Date(1999, time.March, 17, 1, 44, 55, 0, time.UTC)
	winterDate      = time.Date(1999, time.January, 15, 12, 0, 0, 0, time.UTC)
	summerDate      = time.Date(1999, time.July, 15, 12, 0, 0, 0, time.UTC)
	weekProbeDate   = time.Date(1999, time.January, 3, 1, 1, 1, 0, time.UTC)
)

// LocaleTime is an immutable snapshot of the names and composite formats a
// locale uses for dates and times.
type LocaleTime struct {
	lang         string
	fullWeekdays []string
	abbrWeekdays []string
	fullMonths   []string
	abbrMonths   []string
	ampm         [2]string
	timezone     [2]string
	dateTime     string
	date         string
	time         string

	fullWeekdayIndex map[string]int
	abbrWeekdayIndex map[string]int
	fullMonthIndex   map[string]int
	abbrMonthIndex   map[string]int
}

// NewLocaleTime harvests the tables for lang from renderer, applying
// overrides on top. A nil renderer is only valid when overrides cover every
// value; missing values are then left empty.
func NewLocaleTime(renderer Renderer, lang string, overrides LocaleOverrides) (*LocaleTime, error) {
	if err := overrides.Validate(); err != nil {
		return nil, err
	}

	lt := &LocaleTime{lang: normalizeLocale(lang)}
	h := harvester{renderer: renderer}

	var err error
	if lt.fullWeekdays, err = h.weekdays(overrides.FullWeekdays, "%A"); err != nil {
		return nil, err
	}
	if lt.abbrWeekdays, err = h.weekdays(overrides.AbbrWeekdays, "%a"); err != nil {
		return nil, err
	}
	if lt.fullMonths, err = h.months(overrides.FullMonths, "%B"); err != nil {
		return nil, err
	}
	if lt.abbrMonths, err = h.months(overrides.AbbrMonths, "%b"); err != nil {
		return nil, err
	}

	if overrides.AMPM != nil {
		copy(lt.ampm[:], overrides.AMPM)
	} else {
		lt.ampm = [2]string{h.optional("%p", morningDate), h.optional("%p", magicDate)}
	}

	if overrides.Timezone != nil {
		copy(lt.timezone[:], overrides.Timezone)
	} else {
		lt.timezone = [2]string{h.optional("%Z", winterDate), h.optional("%Z", summerDate)}
	}

	lt.dateTime, lt.date, lt.time = overrides.DateTime, overrides.Date, overrides.Time
	if err := lt.harvestComposites(renderer); err != nil {
		return nil, err
	}

	lt.fullWeekdayIndex = foldIndex(lt.fullWeekdays, 0)
	lt.abbrWeekdayIndex = foldIndex(lt.abbrWeekdays, 0)
	lt.fullMonthIndex = foldIndex(lt.fullMonths, 1)
	lt.abbrMonthIndex = foldIndex(lt.abbrMonths, 1)

	return lt, nil
}

// Lang returns the locale identifier the table was built for.
func (lt *LocaleTime) Lang() string { return lt.lang }

// FullWeekdays returns the full weekday names, Monday first.
func (lt *LocaleTime) FullWeekdays() []string { return cloneStrings(lt.fullWeekdays) }

// AbbrWeekdays returns the abbreviated weekday names, Monday first.
func (lt *LocaleTime) AbbrWeekdays() []string { return cloneStrings(lt.abbrWeekdays) }

// FullMonths returns the full month names; index 0 is an empty placeholder.
func (lt *LocaleTime) FullMonths() []string { return cloneStrings(lt.fullMonths) }

// AbbrMonths returns the abbreviated month names; index 0 is an empty placeholder.
func (lt *LocaleTime) AbbrMonths() []string { return cloneStrings(lt.abbrMonths) }

func (lt *LocaleTime) AMPM() [2]string { return lt.ampm }

func (lt *LocaleTime) Timezone() [2]string { return lt.timezone }

// DateTime returns the format behind %c.
func (lt *LocaleTime) DateTime() string { return lt.dateTime }

// Date returns the format behind %x.
func (lt *LocaleTime) Date() string { return lt.date }

// Time returns the format behind %X.
func (lt *LocaleTime) Time() string { return lt.time }

func (lt *LocaleTime) composite(directive byte) string {
	switch directive {
	case 'c':
		return lt.dateTime
	case 'x':
		return lt.date
	case 'X':
		return lt.time
	}
	return ""
}

// timezoneIndex resolves a captured %Z value. Tables whose two entries are
// equal cannot tell the zones apart and always report -1.
func (lt *LocaleTime) timezoneIndex(value string) int {
	first, second := foldName(lt.timezone[0]), foldName(lt.timezone[1])
	if first == second {
		return -1
	}
	switch foldName(value) {
	case first:
		return 0
	case second:
		return 1
	}
	return -1
}

func (lt *LocaleTime) isAM(marker string) bool {
	return marker == "" || foldName(marker) == foldName(lt.ampm[0])
}

func (lt *LocaleTime) isPM(marker string) bool {
	return foldName(marker) == foldName(lt.ampm[1])
}

type harvester struct {
	renderer Renderer
}

func (h harvester) render(format string, t time.Time) (string, error) {
	if h.renderer == nil {
		return "", nil
	}
	out, err := h.renderer.Render(format, t)
	if err != nil {
		return "", fmt.Errorf("strptime: harvest %s: %w", format, err)
	}
	return out, nil
}

// optional renders values a locale may legitimately lack, such as AM/PM
// markers or zone abbreviations; failures degrade to "".
func (h harvester) optional(format string, t time.Time) string {
	out, err := h.render(format, t)
	if err != nil {
		return ""
	}
	return out
}

func (h harvester) weekdays(override []string, format string) ([]string, error) {
	if override != nil {
		return cloneStrings(override), nil
	}
	names := make([]string, 7)
	for i := range names {
		out, err := h.render(format, referenceMonday.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		names[i] = out
	}
	return names, nil
}

func (h harvester) months(override []string, format string) ([]string, error) {
	names := make([]string, 13)
	if override != nil {
		copy(names[1:], override)
		return names, nil
	}
	for month := 1; month <= 12; month++ {
		out, err := h.render(format, time.Date(1999, time.Month(month), 3, 0, 0, 0, 0, time.UTC))
		if err != nil {
			return nil, err
		}
		names[month] = out
	}
	return names, nil
}

func (lt *LocaleTime) harvestComposites(renderer Renderer) error {
	h := harvester{renderer: renderer}
	source, _ := renderer.(CompositeSource)

	targets := []struct {
		directive byte
		value     *string
	}{
		{'c', &lt.dateTime},
		{'x', &lt.date},
		{'X', &lt.time},
	}

	for _, target := range targets {
		if *target.value != "" {
			continue
		}
		if source != nil {
			if format, ok := source.CompositeFormat(target.directive); ok {
				*target.value = format
				continue
			}
		}

		directive := "%" + string(target.directive)
		rendered, err := h.render(directive, magicDate)
		if err != nil {
			return err
		}
		probe, err := h.render(directive, weekProbeDate)
		if err != nil {
			return err
		}
		*target.value = lt.formatFromRendering(rendered, probe)
	}
	return nil
}

type formatSegment struct {
	text      string
	directive bool
}

// formatFromRendering maps the rendering of the magic date back onto the
// directives that produced it.
func (lt *LocaleTime) formatFromRendering(rendered, weekProbe string) string {
	pairs := [][2]string{
		{"%", "%%"},
		{lt.fullWeekdays[2], "%A"},
		{lt.fullMonths[3], "%B"},
		{lt.abbrWeekdays[2], "%a"},
		{lt.abbrMonths[3], "%b"},
		{lt.ampm[1], "%p"},
		{"1999", "%Y"},
		{"99", "%y"},
		{"22", "%H"},
		{"44", "%M"},
		{"55", "%S"},
		{"76", "%j"},
		{"17", "%d"},
		{"03", "%m"},
		{"3", "%m"},
		{"2", "%w"},
		{"10", "%I"},
	}
	for _, tz := range lt.timezone {
		pairs = append(pairs, [2]string{tz, "%Z"})
	}

	weekDirective := "%U"
	if strings.Contains(weekProbe, "00") {
		weekDirective = "%W"
	}
	pairs = append(pairs, [2]string{"11", weekDirective})

	segments := []formatSegment{{text: strings.ToLower(rendered)}}
	for _, pair := range pairs {
		segments = replaceLiteral(segments, strings.ToLower(pair[0]), pair[1])
	}

	var b strings.Builder
	for _, segment := range segments {
		b.WriteString(segment.text)
	}
	return b.String()
}

// replaceLiteral substitutes old in the literal segments only, so directives
// inserted by earlier substitutions are never rewritten.
func replaceLiteral(segments []formatSegment, old, directive string) []formatSegment {
	if old == "" {
		return segments
	}
	out := make([]formatSegment, 0, len(segments))
	for _, segment := range segments {
		if segment.directive {
			out = append(out, segment)
			continue
		}
		parts := strings.Split(segment.text, old)
		for i, part := range parts {
			if i > 0 {
				out = append(out, formatSegment{text: directive, directive: true})
			}
			if part != "" {
				out = append(out, formatSegment{text: part})
			}
		}
	}
	return out
}

func foldName(name string) string {
	return cases.Fold().String(name)
}

// foldIndex maps case folded names to their position plus offset. Empty
// names are skipped and the first occurrence of a duplicate wins.
func foldIndex(names []string, offset int) map[string]int {
	index := make(map[string]int, len(names))
	for i, name := range names[offset:] {
		if name == "" {
			continue
		}
		key := foldName(name)
		if _, exists := index[key]; exists {
			continue
		}
		index[key] = i + offset
	}
	return index
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
