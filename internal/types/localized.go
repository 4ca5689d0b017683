package types

import "sort"

// DefaultLanguage is the fallback language for localized text and the
// default UI language for users that never picked one.
const DefaultLanguage = "en"

// SupportedLanguages lists the language codes the catalog dataset carries.
var SupportedLanguages = []string{"en", "id"}

// LocalizedText maps a language code to a display string.
type LocalizedText map[string]string

// Resolve returns the text for lang, falling back to "en" and then to the
// lexicographically first remaining value. Empty when no value exists at all.
func (t LocalizedText) Resolve(lang string) string {
	if v, ok := t[lang]; ok && v != "" {
		return v
	}
	if v, ok := t[DefaultLanguage]; ok && v != "" {
		return v
	}
	keys := make([]string, 0, len(t))
	for k, v := range t {
		if v != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return t[keys[0]]
}

// IsSupportedLanguage reports whether lang is a language the app can render.
func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
