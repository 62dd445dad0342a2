package youtube

import (
	"fmt"
	"strings"
)

// knownLanguages holds the ISO 639-1 base codes accepted for a preferred
// caption language. YouTube offers more; these cover the common ones.
var knownLanguages = map[string]bool{
	"af": true, "ar": true, "bg": true, "bn": true, "ca": true, "cs": true,
	"da": true, "de": true, "el": true, "en": true, "es": true, "et": true,
	"fa": true, "fi": true, "fr": true, "gu": true, "he": true, "hi": true,
	"hr": true, "hu": true, "id": true, "it": true, "ja": true, "kn": true,
	"ko": true, "lt": true, "lv": true, "mk": true, "ml": true, "mr": true,
	"ms": true, "nl": true, "no": true, "pa": true, "pl": true, "pt": true,
	"ro": true, "ru": true, "sk": true, "sl": true, "sr": true, "sv": true,
	"sw": true, "ta": true, "te": true, "th": true, "tl": true, "tr": true,
	"uk": true, "ur": true, "vi": true, "zh": true,
}

// defaultVariants is the caption language order when no preference is set.
// "" means whatever track the video lists first.
var defaultVariants = []string{"", "en", "en-US"}

// NormalizeLanguage rewrites a code to YouTube's form: lowercase base with
// an uppercase region. "pt_br" and "PT-BR" become "pt-BR".
func NormalizeLanguage(code string) string {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	base, region, found := strings.Cut(code, "-")
	base = strings.ToLower(base)
	if !found {
		return base
	}
	return base + "-" + strings.ToUpper(region)
}

// ValidateLanguage checks a preferred caption language. Empty is valid.
func ValidateLanguage(code string) error {
	if code == "" {
		return nil
	}
	base, _, _ := strings.Cut(NormalizeLanguage(code), "-")
	if !knownLanguages[base] {
		return fmt.Errorf("unknown caption language %q (use ISO 639-1 codes like 'en', 'fr', 'pt-BR'): %w",
			code, ErrInvalidLanguage)
	}
	return nil
}

// languageVariants returns the caption languages to try, preferred first,
// without duplicates.
func languageVariants(preferred string) []string {
	out := make([]string, 0, len(defaultVariants)+1)
	seen := make(map[string]bool, len(defaultVariants)+1)
	if preferred != "" {
		p := NormalizeLanguage(preferred)
		out = append(out, p)
		seen[p] = true
	}
	for _, v := range defaultVariants {
		if !seen[v] {
			out = append(out, v)
			seen[v] = true
		}
	}
	return out
}
