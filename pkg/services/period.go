// Package services implements the query-understanding pipeline: period
// extraction, classification, template matching, SQL synthesis, chart
// building and orchestration.
package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/atlantix-inc/insight-engine/pkg/models"
)

// monthYearPattern matches an explicit Russian month-name + year mention,
// covering the case endings that appear in natural phrasing
// ("в марте 2025", "за март 2025").
var monthYearPattern = regexp.MustCompile(`(январ[ьея]|феврал[ьея]|март[ае]?|апрел[ьея]|ма[йея]|июн[ьея]|июл[ьея]|август[ае]?|сентябр[ьея]|октябр[ьея]|ноябр[ьея]|декабр[ьея])\s+(\d{4})`)

// monthPrefixes maps month-name stems to month numbers. Longest stems are
// checked first so "март" does not shadow "ма" (май).
var monthPrefixes = []struct {
	prefix string
	month  time.Month
}{
	{"январ", time.January},
	{"феврал", time.February},
	{"март", time.March},
	{"апрел", time.April},
	{"август", time.August},
	{"сентябр", time.September},
	{"октябр", time.October},
	{"ноябр", time.November},
	{"декабр", time.December},
	{"июн", time.June},
	{"июл", time.July},
	{"ма", time.May},
}

// PeriodExtractor resolves relative and absolute date expressions in a raw
// query into a concrete time period. The clock is injectable so extraction
// is a pure function of (text, now).
type PeriodExtractor struct {
	now func() time.Time
}

// NewPeriodExtractor creates an extractor. A nil clock defaults to
// time.Now.
func NewPeriodExtractor(now func() time.Time) *PeriodExtractor {
	if now == nil {
		now = time.Now
	}
	return &PeriodExtractor{now: now}
}

// Extract determines the time period mentioned in the query text.
// Recognized, in priority order: fixed relative phrases, an explicit
// month-name + year mention, and finally the default window of the last 30
// days ending today. Never fails; the returned period always satisfies
// start <= end.
func (e *PeriodExtractor) Extract(text string) models.TimePeriod {
	today := truncateToDay(e.now())
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "прошлый месяц") || strings.Contains(lower, "предыдущий месяц"):
		anchor := today.AddDate(0, 0, -30)
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		return models.TimePeriod{Start: start, End: end}

	case strings.Contains(lower, "последние 6 месяцев") || strings.Contains(lower, "за 6 месяцев"):
		return models.TimePeriod{Start: today.AddDate(0, 0, -180), End: today}

	case strings.Contains(lower, "этот год") || strings.Contains(lower, "текущий год"):
		return models.TimePeriod{
			Start: time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   today,
		}
	}

	if m := monthYearPattern.FindStringSubmatch(lower); m != nil {
		if period, ok := monthPeriod(m[1], m[2]); ok {
			return period
		}
	}

	return models.TimePeriod{Start: today.AddDate(0, 0, -30), End: today}
}

// HasPeriodPhrase reports whether the text contains a time-bucketing
// phrase. The classifier uses this to pick line over bar for count queries.
func HasPeriodPhrase(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "по месяцам") || strings.Contains(lower, "по неделям")
}

// monthPeriod maps a matched month stem and year to the first/last calendar
// day of that month.
func monthPeriod(monthStr, yearStr string) (models.TimePeriod, bool) {
	year := 0
	for _, c := range yearStr {
		year = year*10 + int(c-'0')
	}

	for _, mp := range monthPrefixes {
		if strings.HasPrefix(monthStr, mp.prefix) {
			start := time.Date(year, mp.month, 1, 0, 0, 0, 0, time.UTC)
			end := start.AddDate(0, 1, 0).AddDate(0, 0, -1)
			return models.TimePeriod{Start: start, End: end}, true
		}
	}
	return models.TimePeriod{}, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
