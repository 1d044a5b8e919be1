package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
	cldr "golang.org/x/text/unicode/cldr"
)

type generatorConfig struct {
	pkg      string
	out      string
	cldrPath string
	locales  []string
}

type namesPayload struct {
	Locale      string
	Days        [7]string
	ShortDays   [7]string
	Months      [12]string
	ShortMonths [12]string
	DayPeriods  [2]string
}

// CLDR day types in Monday first order.
var dayTypes = [7]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

type localeFlag struct {
	items []string
}

func (f *localeFlag) String() string {
	return strings.Join(f.items, ",")
}

func (f *localeFlag) Set(value string) error {
	parts := strings.Split(value, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f.items = append(f.items, part)
	}
	return nil
}

func main() {
	cfg, err := parseFlags()
	if err != nil {
		reportError(err)
	}

	if err := run(cfg); err != nil {
		reportError(err)
	}
}

func reportError(err error) {
	fmt.Fprintf(os.Stderr, "strptime-names: %v\n", err)
	os.Exit(1)
}

func parseFlags() (generatorConfig, error) {
	var cfg generatorConfig
	var localeList localeFlag

	flag.StringVar(&cfg.pkg, "pkg", "strptime", "package name for generated file")
	flag.StringVar(&cfg.out, "out", "locale_names_data.go", "path to generated Go file")
	flag.StringVar(&cfg.cldrPath, "cldr", "", "path to CLDR core data directory (expects a main/ subdirectory)")
	flag.Var(&localeList, "locale", "locale to generate. Repeat flag or separate with commas to add more.")

	flag.Parse()

	if len(localeList.items) == 0 {
		return generatorConfig{}, errors.New("at least one -locale value is required")
	}

	for _, locale := range localeList.items {
		normalized, err := normalizeLocale(locale)
		if err != nil {
			return generatorConfig{}, err
		}
		cfg.locales = append(cfg.locales, normalized)
	}

	if cfg.cldrPath == "" {
		cfg.cldrPath = os.Getenv("CLDR_CORE_DIR")
	}

	if cfg.cldrPath == "" {
		return generatorConfig{}, errors.New("missing CLDR data directory (set -cldr or CLDR_CORE_DIR)")
	}

	return cfg, nil
}

func run(cfg generatorConfig) error {
	data, err := loadCLDR(cfg.cldrPath)
	if err != nil {
		return err
	}

	var payloads []namesPayload
	for _, locale := range cfg.locales {
		payload, err := buildNames(data, locale)
		if err != nil {
			return fmt.Errorf("build names for %s: %w", locale, err)
		}
		payloads = append(payloads, payload)
	}

	sort.Slice(payloads, func(i, j int) bool {
		return payloads[i].Locale < payloads[j].Locale
	})

	source, err := renderSource(cfg.pkg, payloads)
	if err != nil {
		return err
	}

	if err := ensureDir(cfg.out); err != nil {
		return err
	}

	return os.WriteFile(cfg.out, source, 0o644)
}

func loadCLDR(path string) (*cldr.CLDR, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat CLDR directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("CLDR path %q is not a directory", path)
	}

	var decoder cldr.Decoder
	decoder.SetDirFilter("main")
	decoder.SetSectionFilter("dates")

	data, err := decoder.DecodePath(path)
	if err != nil {
		return nil, fmt.Errorf("decode CLDR data: %w", err)
	}
	return data, nil
}

func normalizeLocale(input string) (string, error) {
	input = strings.ReplaceAll(strings.TrimSpace(input), "_", "-")
	if input == "" {
		return "", errors.New("empty locale identifier")
	}
	tag, err := language.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid locale %q: %w", input, err)
	}
	return tag.String(), nil
}

func buildNames(data *cldr.CLDR, locale string) (namesPayload, error) {
	payload := namesPayload{Locale: locale}

	calendar := findGregorian(data, locale)
	if calendar == nil {
		return payload, errors.New("missing gregorian calendar data")
	}

	if calendar.Days != nil {
		for _, context := range calendar.Days.DayContext {
			if context == nil || context.Type != "format" {
				continue
			}
			for _, width := range context.DayWidth {
				if width == nil {
					continue
				}
				var target *[7]string
				switch width.Type {
				case "wide":
					target = &payload.Days
				case "abbreviated":
					target = &payload.ShortDays
				default:
					continue
				}
				for _, day := range width.Day {
					if day == nil || day.Alt != "" {
						continue
					}
					for i, dayType := range dayTypes {
						if day.Type == dayType {
							target[i] = day.Data()
						}
					}
				}
			}
		}
	}

	if calendar.Months != nil {
		for _, context := range calendar.Months.MonthContext {
			if context == nil || context.Type != "format" {
				continue
			}
			for _, width := range context.MonthWidth {
				if width == nil {
					continue
				}
				var target *[12]string
				switch width.Type {
				case "wide":
					target = &payload.Months
				case "abbreviated":
					target = &payload.ShortMonths
				default:
					continue
				}
				for _, month := range width.Month {
					if month == nil || month.Alt != "" || month.Yeartype != "" {
						continue
					}
					var index int
					if _, err := fmt.Sscanf(month.Type, "%d", &index); err != nil || index < 1 || index > 12 {
						continue
					}
					target[index-1] = month.Data()
				}
			}
		}
	}

	if calendar.DayPeriods != nil {
		for _, context := range calendar.DayPeriods.DayPeriodContext {
			if context == nil || context.Type != "format" {
				continue
			}
			for _, width := range context.DayPeriodWidth {
				if width == nil || width.Type != "abbreviated" {
					continue
				}
				for _, period := range width.DayPeriod {
					if period == nil || period.Alt != "" {
						continue
					}
					switch period.Type {
					case "am":
						payload.DayPeriods[0] = period.Data()
					case "pm":
						payload.DayPeriods[1] = period.Data()
					}
				}
			}
		}
	}

	for i, name := range payload.Days {
		if name == "" {
			return payload, fmt.Errorf("missing wide name for %s", dayTypes[i])
		}
	}
	for i, name := range payload.Months {
		if name == "" {
			return payload, fmt.Errorf("missing wide name for month %d", i+1)
		}
	}

	return payload, nil
}

func findGregorian(data *cldr.CLDR, locale string) *cldr.Calendar {
	ldml := findLDML(data, locale)
	if ldml == nil || ldml.Dates == nil || ldml.Dates.Calendars == nil {
		return nil
	}
	for _, calendar := range ldml.Dates.Calendars.Calendar {
		if calendar != nil && calendar.Type == "gregorian" {
			return calendar
		}
	}
	return nil
}

func findLDML(data *cldr.CLDR, locale string) *cldr.LDML {
	if data == nil {
		return nil
	}
	candidate := strings.ReplaceAll(locale, "-", "_")
	for {
		if candidate == "" {
			break
		}
		if ldml := data.RawLDML(candidate); ldml != nil {
			return ldml
		}
		if idx := strings.LastIndex(candidate, "_"); idx >= 0 {
			candidate = candidate[:idx]
			continue
		}
		break
	}
	return data.RawLDML("root")
}

func renderSource(pkg string, payloads []namesPayload) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("// Code generated by strptime-names. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)

	buf.WriteString("var calendarNameData = map[string]calendarNames{\n")
	for _, payload := range payloads {
		fmt.Fprintf(&buf, "\t%q: {\n", payload.Locale)
		writeNames(&buf, "Days", payload.Days[:])
		writeNames(&buf, "ShortDays", payload.ShortDays[:])
		writeNames(&buf, "Months", payload.Months[:])
		writeNames(&buf, "ShortMonths", payload.ShortMonths[:])
		writeNames(&buf, "DayPeriods", payload.DayPeriods[:])
		buf.WriteString("\t},\n")
	}
	buf.WriteString("}\n\n")

	buf.WriteString("var bundledLocales = []string{\n")
	for _, payload := range payloads {
		fmt.Fprintf(&buf, "\t%q,\n", payload.Locale)
	}
	buf.WriteString("}\n")

	return format.Source(buf.Bytes())
}

func writeNames(buf *bytes.Buffer, field string, names []string) {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	fmt.Fprintf(buf, "\t\t%s: [%d]string{%s},\n", field, len(names), strings.Join(quoted, ", "))
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
