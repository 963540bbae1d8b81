package sanity

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

var monthNames = map[string][12]string{
	"es": {"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	"pt": {"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
	"en": {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatDate renders value as a long date ("05 de marzo de 2025" for es,
// "March 05, 2025" for en) in UTC. value may be a time.Time, a *time.Time or
// a string in RFC 3339 or YYYY-MM-DD form. locale is a BCP 47 tag; an empty
// or unparsable one means DefaultLocale, and languages without a month table
// use English. Missing or invalid values yield "".
func FormatDate(value any, locale string) string {
	t, ok := parseDate(value)
	if !ok {
		return ""
	}
	t = t.UTC()

	lang := localeLanguage(locale)
	months, ok := monthNames[lang]
	if !ok {
		lang, months = "en", monthNames["en"]
	}
	month := months[t.Month()-1]
	if lang == "en" {
		return fmt.Sprintf("%s %02d, %d", month, t.Day(), t.Year())
	}
	return fmt.Sprintf("%02d de %s de %d", t.Day(), month, t.Year())
}

func localeLanguage(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil || tag == language.Und {
		tag = language.MustParse(DefaultLocale)
	}
	base, _ := tag.Base()
	return base.String()
}

func parseDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
