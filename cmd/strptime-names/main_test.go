package main

import (
	"strings"
	"testing"
)

func TestNormalizeLocale(t *testing.T) {
	got, err := normalizeLocale(" es_MX ")
	if err != nil {
		t.Fatalf("normalizeLocale: %v", err)
	}
	if got != "es-MX" {
		t.Fatalf("normalizeLocale = %q", got)
	}

	if _, err := normalizeLocale(""); err == nil {
		t.Fatal("expected error for empty locale")
	}
}

func TestRenderSource(t *testing.T) {
	payload := namesPayload{
		Locale:      "es",
		Days:        [7]string{"lunes", "martes", "miércoles", "jueves", "viernes", "sábado", "domingo"},
		ShortDays:   [7]string{"lun", "mar", "mié", "jue", "vie", "sáb", "dom"},
		Months:      [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
		ShortMonths: [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"},
		DayPeriods:  [2]string{"a. m.", "p. m."},
	}

	source, err := renderSource("strptime", []namesPayload{payload})
	if err != nil {
		t.Fatalf("renderSource: %v", err)
	}

	out := string(source)
	for _, want := range []string{
		"// Code generated by strptime-names. DO NOT EDIT.",
		"package strptime",
		`"miércoles"`,
		`DayPeriods:  [2]string{"a. m.", "p. m."}`,
		"var bundledLocales = []string{\n\t\"es\",\n}",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("generated source missing %q:\n%s", want, out)
		}
	}
}

func TestLocaleFlag(t *testing.T) {
	var f localeFlag
	if err := f.Set("en, es,,fr"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := f.Set("de"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := f.String(); got != "en,es,fr,de" {
		t.Fatalf("String = %q", got)
	}
}
