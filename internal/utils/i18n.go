package utils

// Minimal server-side i18n for fixed keys. Survey content carries its own
// text; the server only localizes a handful of infrastructure strings.

var translations = map[string]map[string]string{
	"en": {
		"health.ok": "ok",
	},
	"es": {
		"health.ok": "bien",
	},
}

// T returns the translated string for key in locale; falls back to English.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := translations["en"][key]; ok {
		return v
	}
	return key
}
