package service

import (
	"sort"

	"github.com/jjenkins/whitehall/internal/model"
)

// Locales returns the locales an edition has content for, primary locale first
// and the rest in lexical order. The primary locale is always included.
func Locales(ed *model.Edition) []string {
	primary := ed.Locale()
	locales := []string{primary}

	var others []string
	for locale, t := range ed.Translations {
		if locale == primary || t.IsBlank() {
			continue
		}
		others = append(others, locale)
	}
	sort.Strings(others)

	return append(locales, others...)
}

// Snapshot resolves the translatable fields of an edition for one locale.
// Blank fields fall back to the primary translation.
func Snapshot(ed *model.Edition, locale string) model.LocaleSnapshot {
	primary := ed.Translations[ed.Locale()]
	t, ok := ed.Translations[locale]
	if !ok {
		t = primary
	}

	if t.Title == "" {
		t.Title = primary.Title
	}
	if t.Summary == "" {
		t.Summary = primary.Summary
	}
	if t.Body == "" {
		t.Body = primary.Body
	}

	return model.LocaleSnapshot{Locale: locale, Translation: t}
}

// Snapshots resolves every locale of an edition in Locales order
func Snapshots(ed *model.Edition) []model.LocaleSnapshot {
	locales := Locales(ed)
	snaps := make([]model.LocaleSnapshot, len(locales))
	for i, locale := range locales {
		snaps[i] = Snapshot(ed, locale)
	}
	return snaps
}
