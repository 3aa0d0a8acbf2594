package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no language is detected.
const DefaultLanguage = "en"

// maxAcceptLanguageLength caps how much of an Accept-Language header is parsed.
const maxAcceptLanguageLength = 4096

// ParseAcceptLanguage picks the supported language that best matches header,
// honoring quality values. A bare tag ("mn-MN") is a valid header. Region
// and script variants fall back to their base language.
func ParseAcceptLanguage(header string, supportedLangs []string, defaultLang string) string {
	header = strings.TrimSpace(header)
	if header == "" || len(supportedLangs) == 0 {
		return defaultLang
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
		if i := strings.LastIndexByte(header, ','); i > 0 {
			header = header[:i]
		}
	}

	desired, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(desired) == 0 {
		return defaultLang
	}

	supported := make([]language.Tag, 0, len(supportedLangs))
	names := make([]string, 0, len(supportedLangs))
	for _, lang := range supportedLangs {
		tag, err := language.Parse(lang)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		names = append(names, strings.ToLower(lang))
	}
	if len(supported) == 0 {
		return defaultLang
	}

	_, idx, confidence := language.NewMatcher(supported).Match(desired...)
	if confidence == language.No {
		return defaultLang
	}
	return names[idx]
}
