package strptime

//go:generate go run ./cmd/strptime-names -locale de,en,es,fr -out locale_names_data.go

// calendarNames holds the CLDR "format" context names for one locale.
// Weekdays are ordered Monday first.
type calendarNames struct {
	Days        [7]string
	ShortDays   [7]string
	Months      [12]string
	ShortMonths [12]string
	DayPeriods  [2]string
}

// calendarBundle pairs calendar names with the strftime composites the
// locale uses for %c, %x and %X.
type calendarBundle struct {
	calendarNames
	DateTime string
	Date     string
	Time     string
}

type compositeFormats struct {
	DateTime string
	Date     string
	Time     string
}

// compositeData follows the glibc LC_TIME definitions, restricted to the
// directives the parser understands.
var compositeData = map[string]compositeFormats{
	"en": {DateTime: "%a %d %b %Y %I:%M:%S %p", Date: "%m/%d/%Y", Time: "%I:%M:%S %p"},
	"es": {DateTime: "%a %d %b %Y %H:%M:%S", Date: "%d/%m/%y", Time: "%H:%M:%S"},
	"fr": {DateTime: "%a %d %b %Y %H:%M:%S", Date: "%d/%m/%Y", Time: "%H:%M:%S"},
	"de": {DateTime: "%a %d %b %Y %H:%M:%S", Date: "%d.%m.%Y", Time: "%H:%M:%S"},
}

var calendarBundles = buildCalendarBundles()

func buildCalendarBundles() map[string]calendarBundle {
	bundles := make(map[string]calendarBundle, len(calendarNameData))
	for locale, names := range calendarNameData {
		bundle := calendarBundle{calendarNames: names}
		if composite, ok := compositeData[locale]; ok {
			bundle.DateTime = composite.DateTime
			bundle.Date = composite.Date
			bundle.Time = composite.Time
		}
		bundles[locale] = bundle
	}
	return bundles
}
