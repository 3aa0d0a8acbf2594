package i18n

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// Translator resolves dot-separated keys against translations loaded from an adapter.
type Translator struct {
	translations   map[string]map[string]any
	defaultLang    string
	fallbackToKey  bool
	missingLogMode bool
	logger         *slog.Logger
	mu             sync.RWMutex
}

// NewTranslator loads translations once through adapter.
func NewTranslator(ctx context.Context, adapter TranslationAdapter, options ...Option) (*Translator, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	t := &Translator{
		defaultLang:   DefaultLanguage,
		fallbackToKey: true,
		logger:        slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(t)
	}

	translations, err := adapter.Load(ctx)
	if err != nil {
		return nil, err
	}
	for lang, entries := range translations {
		if lang == "" {
			return nil, fmt.Errorf("empty language code found")
		}
		if entries == nil {
			return nil, fmt.Errorf("nil translations map for language: %s", lang)
		}
	}

	t.translations = translations
	t.logger.InfoContext(ctx, "translations loaded", slog.Any("languages", t.supportedLanguages()))
	return t, nil
}

func (t *Translator) supportedLanguages() []string {
	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// SupportedLanguages returns the loaded language codes, sorted.
func (t *Translator) SupportedLanguages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.supportedLanguages()
}

// DefaultLanguage returns the language used when a request names none we know.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// Match maps a requested language (a tag such as "mn-MN" or a full
// Accept-Language header) onto a loaded language, or the default.
func (t *Translator) Match(lang string) string {
	return ParseAcceptLanguage(lang, t.SupportedLanguages(), t.defaultLang)
}

func lookup(m map[string]any, key string) (any, bool) {
	parts := strings.Split(key, ".")
	current := m
	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return val, true
		}
		switch next := val.(type) {
		case map[string]any:
			current = next
		case map[any]any:
			current = make(map[string]any, len(next))
			for k, v := range next {
				if ks, ok := k.(string); ok {
					current[ks] = v
				}
			}
		default:
			return nil, false
		}
	}
	return nil, false
}

// HasTranslation reports whether lang carries a string value for key.
func (t *Translator) HasTranslation(lang, key string) bool {
	_, ok := t.get(lang, key)
	return ok
}

func (t *Translator) get(lang, key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries, ok := t.translations[lang]
	if !ok {
		if t.missingLogMode {
			t.logger.Warn("language not supported", slog.String("lang", lang), slog.String("key", key))
		}
		return "", false
	}
	val, ok := lookup(entries, key)
	if !ok {
		if t.missingLogMode {
			t.logger.Warn("translation not found", slog.String("lang", lang), slog.String("key", key))
		}
		return "", false
	}
	s, ok := val.(string)
	if !ok {
		if t.missingLogMode {
			t.logger.Warn("translation is not a string",
				slog.String("lang", lang), slog.String("key", key), slog.String("type", fmt.Sprintf("%T", val)))
		}
		return "", false
	}
	return s, true
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// sprintf substitutes "%{name}" placeholders from key/value pairs in args.
// Unknown placeholders are kept.
func sprintf(tmpl string, args []string) string {
	if len(args) < 2 {
		return tmpl
	}
	params := make(map[string]string, len(args)/2)
	for i := 0; i < len(args)-1; i += 2 {
		params[args[i]] = args[i+1]
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if val, ok := params[match[2:len(match)-1]]; ok {
			return val
		}
		return match
	})
}

// T translates key for lang, e.g. T("en", "greeting", "name", "Bat").
// A missing translation yields the key itself, or "" without fallback to key.
func (t *Translator) T(lang, key string, args ...string) string {
	if s, ok := t.get(lang, key); ok {
		return sprintf(s, args)
	}
	if t.fallbackToKey {
		return sprintf(key, args)
	}
	return ""
}

// Td is T with an explicit fallback value.
func (t *Translator) Td(lang, key, defaultValue string, args ...string) string {
	if s, ok := t.get(lang, key); ok {
		return sprintf(s, args)
	}
	return sprintf(defaultValue, args)
}

// Tc translates key using the language stored in ctx by Middleware.
func (t *Translator) Tc(ctx context.Context, key string, args ...string) string {
	return t.T(GetLocale(ctx), key, args...)
}
