package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// Locale bundles the language used for month and weekday names with the
// weekday a grid row starts on.
type Locale struct {
	Tag          language.Tag
	Names        monday.Locale
	FirstWeekday time.Weekday
}

// Predefined locales. Weeks start on Monday unless overridden.
var (
	LocaleUS     = Locale{Tag: language.AmericanEnglish, Names: monday.LocaleEnUS, FirstWeekday: time.Monday}
	LocaleGerman = Locale{Tag: language.German, Names: monday.LocaleDeDE, FirstWeekday: time.Monday}
)

var supportedLocales = []struct {
	tag   language.Tag
	names monday.Locale
}{
	{language.AmericanEnglish, monday.LocaleEnUS},
	{language.BritishEnglish, monday.LocaleEnGB},
	{language.German, monday.LocaleDeDE},
	{language.French, monday.LocaleFrFR},
	{language.EuropeanSpanish, monday.LocaleEsES},
	{language.Italian, monday.LocaleItIT},
	{language.Dutch, monday.LocaleNlNL},
	{language.EuropeanPortuguese, monday.LocalePtPT},
	{language.BrazilianPortuguese, monday.LocalePtBR},
	{language.Russian, monday.LocaleRuRU},
	{language.Swedish, monday.LocaleSvSE},
	{language.Polish, monday.LocalePlPL},
	{language.Danish, monday.LocaleDaDK},
	{language.Finnish, monday.LocaleFiFI},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(supportedLocales))
	for i, l := range supportedLocales {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// ResolveLocale maps a BCP-47 tag ("de", "en-US", "pt_BR") to the closest
// supported locale. An empty tag resolves to LocaleUS.
func ResolveLocale(tag string) (Locale, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return LocaleUS, nil
	}

	parsed, err := language.Parse(strings.ReplaceAll(tag, "_", "-"))
	if err != nil {
		return Locale{}, &ConfigError{Op: "locale", Value: tag, Err: err}
	}

	_, idx, confidence := localeMatcher.Match(parsed)
	if confidence == language.No {
		return Locale{}, &ConfigError{Op: "locale", Value: tag, Err: fmt.Errorf("no supported locale matches %s", parsed)}
	}

	return Locale{
		Tag:          supportedLocales[idx].tag,
		Names:        supportedLocales[idx].names,
		FirstWeekday: time.Monday,
	}, nil
}

// WithFirstWeekday returns a copy of the locale whose grid rows start on day.
func (l Locale) WithFirstWeekday(day time.Weekday) Locale {
	l.FirstWeekday = day
	return l
}

// String returns the BCP-47 form of the locale tag.
func (l Locale) String() string {
	return l.Tag.String()
}

// ParseWeekday parses an English weekday name ("monday", "Sun").
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return time.Sunday, &ConfigError{Op: "weekday", Value: s, Err: fmt.Errorf("unknown weekday")}
}

// weekdayReference is a Monday; the offsets below walk a full week from it.
var weekdayReference = time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)

// WeekdayHeaders returns the seven abbreviated weekday names of a grid row,
// starting at the locale's first weekday. Abbreviation dots are dropped.
func WeekdayHeaders(l Locale) []string {
	layout, _ := Layout(weekdayHeaderPattern)
	headers := make([]string, 7)
	for i := range headers {
		day := (int(l.FirstWeekday) + i) % 7
		offset := (day - int(time.Monday) + 7) % 7
		name := monday.Format(weekdayReference.AddDate(0, 0, offset), layout, l.Names)
		headers[i] = strings.ReplaceAll(name, ".", "")
	}
	return headers
}
