package strptime

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Result is the fully resolved calendar value of a parse. Weekday counts
// from Monday=0; TZ is -1 when the zone is unknown, otherwise the index of
// the matching locale timezone name.
type Result struct {
	Year    int `json:"year"`
	Month   int `json:"month"`
	Day     int `json:"day"`
	Hour    int `json:"hour"`
	Minute  int `json:"minute"`
	Second  int `json:"second"`
	Weekday int `json:"weekday"`
	YearDay int `json:"yday"`
	TZ      int `json:"tz"`
}

// Tuple returns the nine fields in struct_time order.
func (r Result) Tuple() [9]int {
	return [9]int{r.Year, r.Month, r.Day, r.Hour, r.Minute, r.Second, r.Weekday, r.YearDay, r.TZ}
}

// Time builds a time.Time in loc. Leap seconds roll into the next minute.
func (r Result) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(r.Year, time.Month(r.Month), r.Day, r.Hour, r.Minute, r.Second, 0, loc)
}

// Parser matches strings against strftime style formats using the names of
// the locale reported by its LocaleSource.
type Parser struct {
	localeSource LocaleSource
	newLocale    func(lang string) (*LocaleTime, error)
	locales      *LocaleCache
	formats      *FormatCache
	logger       *zap.Logger
}

// Parse matches data against format and resolves the calendar fields.
func (p *Parser) Parse(data, format string) (Result, error) {
	compiled, _, err := p.Compile(format)
	if err != nil {
		return Result{}, err
	}

	groups, ok := compiled.match(data)
	if !ok {
		return Result{}, &FormatMismatchError{Data: data, Format: format}
	}

	result, err := resolve(compiled.locale, compiled.directives, groups)
	if err != nil {
		return Result{}, &FormatMismatchError{Data: data, Format: format, Reason: err.Error()}
	}
	return result, nil
}

// ParseTime parses data and builds a time.Time in loc.
func (p *Parser) ParseTime(data, format string, loc *time.Location) (time.Time, error) {
	result, err := p.Parse(data, format)
	if err != nil {
		return time.Time{}, err
	}
	return result.Time(loc), nil
}

// Compile returns the compiled form of format for the current locale along
// with the locale fragments it was built from.
func (p *Parser) Compile(format string) (*CompiledFormat, *TimeRE, error) {
	lang := normalizeLocale(p.localeSource())

	re, _, err := p.locales.Get(lang, func() (*TimeRE, error) {
		lt, err := p.newLocale(lang)
		if err != nil {
			return nil, err
		}
		p.logger.Debug("harvested locale",
			zap.String("lang", lang),
			zap.Strings("am_pm", lt.ampm[:]),
			zap.Strings("timezone", lt.timezone[:]),
			zap.String("date_time", lt.dateTime),
			zap.String("date", lt.date),
			zap.String("time", lt.time),
		)
		return NewTimeRE(lt), nil
	})
	if err != nil {
		return nil, nil, err
	}

	compiled, _, err := p.formats.Get(format, re, func() (*CompiledFormat, error) {
		compiled, err := re.Compile(format)
		if err != nil {
			return nil, err
		}
		p.logger.Debug("compiled format",
			zap.String("format", format),
			zap.String("lang", lang),
			zap.String("pattern", compiled.Pattern()),
		)
		return compiled, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return compiled, re, nil
}

// fields is the scratch record of a single parse.
type fields struct {
	year, month, day     int
	hour, minute, second int
	weekday, yday        int
	week                 int
	tz                   int
	hasDate, hasYday     bool
	hasWeek, hasWeekday  bool
	mondayWeek           bool
}

func resolve(lt *LocaleTime, directives []byte, groups []string) (Result, error) {
	f := fields{year: 1900, month: 1, day: 1, tz: -1}

	var marker string
	for i, directive := range directives {
		if directive == 'p' {
			marker = groups[i]
		}
	}

	for i, directive := range directives {
		value := groups[i]
		switch directive {
		case 'y':
			year := atoi(value)
			if year <= 68 {
				year += 2000
			} else {
				year += 1900
			}
			f.year = year
		case 'Y':
			f.year = atoi(value)
		case 'm':
			f.month = atoi(value)
			f.hasDate = true
		case 'B':
			f.month = lt.fullMonthIndex[foldName(value)]
			f.hasDate = true
		case 'b':
			f.month = lt.abbrMonthIndex[foldName(value)]
			f.hasDate = true
		case 'd':
			f.day = atoi(value)
			f.hasDate = true
		case 'H':
			f.hour = atoi(value)
		case 'I':
			hour := atoi(value)
			switch {
			case lt.isAM(marker):
				if hour == 12 {
					hour = 0
				}
			case lt.isPM(marker):
				if hour != 12 {
					hour += 12
				}
			}
			f.hour = hour
		case 'M':
			f.minute = atoi(value)
		case 'S':
			f.second = atoi(value)
		case 'A':
			f.weekday = lt.fullWeekdayIndex[foldName(value)]
			f.hasWeekday = true
		case 'a':
			f.weekday = lt.abbrWeekdayIndex[foldName(value)]
			f.hasWeekday = true
		case 'w':
			f.weekday = mondayFirst(atoi(value))
			f.hasWeekday = true
		case 'j':
			f.yday = atoi(value)
			f.hasYday = true
		case 'U', 'W':
			f.week = atoi(value)
			f.mondayWeek = directive == 'W'
			f.hasWeek = true
		case 'Z':
			f.tz = lt.timezoneIndex(value)
		}
	}

	if err := f.calculate(); err != nil {
		return Result{}, err
	}

	return Result{
		Year:    f.year,
		Month:   f.month,
		Day:     f.day,
		Hour:    f.hour,
		Minute:  f.minute,
		Second:  f.second,
		Weekday: f.weekday,
		YearDay: f.yday,
		TZ:      f.tz,
	}, nil
}

// calculate fills in the fields the format did not supply. A captured day of
// year is authoritative for month and day; the weekday is always derived
// from the final date. A month and day that do not exist in the year are
// rejected.
func (f *fields) calculate() error {
	switch {
	case f.hasYday:
		f.year, f.month, f.day = fromDayOfYear(f.year, f.yday)
		f.yday = dayOfYear(f.year, f.month, f.day)
	case f.hasWeek && f.hasWeekday && !f.hasDate:
		yday := dayOfYearFromWeek(f.year, f.week, f.weekday, f.mondayWeek)
		f.year, f.month, f.day = fromDayOfYear(f.year, yday)
		f.yday = dayOfYear(f.year, f.month, f.day)
	default:
		if f.month < 1 || f.month > 12 {
			return fmt.Errorf("month %d out of range", f.month)
		}
		if last := daysInMonth(f.year, f.month); f.day < 1 || f.day > last {
			return fmt.Errorf("day %d out of range for %04d-%02d", f.day, f.year, f.month)
		}
		f.yday = dayOfYear(f.year, f.month, f.day)
	}
	f.weekday = weekdayOf(f.year, f.month, f.day)
	return nil
}

func atoi(value string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(value))
	return n
}

var (
	defaultOnce   sync.Once
	defaultParser *Parser
)

// Default returns a process wide Parser that follows the environment locale
// and the local time zone.
func Default() *Parser {
	defaultOnce.Do(func() {
		cfg, err := NewConfig()
		if err != nil {
			panic(err)
		}
		defaultParser = cfg.BuildParser()
	})
	return defaultParser
}

// Parse parses data with the Default parser.
func Parse(data, format string) (Result, error) {
	return Default().Parse(data, format)
}
