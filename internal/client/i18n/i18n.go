// Package i18n holds the user-facing message catalogs of the CLI.
package i18n

import (
	"fmt"
	"regexp"
	"strings"
)

type Locale string

const (
	PtBR Locale = "pt-BR"
	EnUS Locale = "en-US"

	// Default is used when nothing better can be detected.
	Default = PtBR
)

var placeholder = regexp.MustCompile(`\{(\w+)\}`)

// Detect maps a locale tag ("en", "en_US.UTF-8", "pt-BR") to a supported
// locale.
func Detect(tag string) Locale {
	t := strings.ToLower(strings.TrimSpace(tag))
	t = strings.ReplaceAll(t, "_", "-")
	switch {
	case strings.HasPrefix(t, "en"):
		return EnUS
	case strings.HasPrefix(t, "pt"):
		return PtBR
	default:
		return Default
	}
}

// Vars are substituted into {name} placeholders.
type Vars map[string]any

type Translator struct {
	locale Locale
}

func New(locale Locale) *Translator {
	if _, ok := catalogs[locale]; !ok {
		locale = Default
	}
	return &Translator{locale: locale}
}

func (t *Translator) Locale() Locale { return t.locale }

// T returns the message for key. Missing keys fall back to the default
// catalog and finally to the key itself. Unknown placeholders render empty.
func (t *Translator) T(key string, vars ...Vars) string {
	tmpl, ok := catalogs[t.locale][key]
	if !ok {
		tmpl, ok = catalogs[Default][key]
	}
	if !ok {
		return key
	}
	if len(vars) == 0 {
		return tmpl
	}

	v := vars[0]
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		val, ok := v[m[1:len(m)-1]]
		if !ok {
			return ""
		}
		return fmt.Sprint(val)
	})
}
