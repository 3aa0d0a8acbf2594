package i18n

import (
	"context"
	"embed"
)

//go:embed locales/*.yaml
var catalogFS embed.FS

// ActionLabels resolves workflow action labels from the "actions" catalog.
// Lookup order: actions.<kind>.<state>, then actions.default.<state>, first
// in the negotiated language and then in the default language. An empty
// result lets the caller humanize the state name.
type ActionLabels struct {
	t *Translator
}

// NewActionLabels loads the bundled en and mn catalogs.
func NewActionLabels(ctx context.Context, opts ...Option) (*ActionLabels, error) {
	t, err := NewTranslator(ctx, NewFSAdapter(NewYAMLParser(), catalogFS, "locales"), opts...)
	if err != nil {
		return nil, err
	}
	return NewActionLabelsFrom(t), nil
}

// NewActionLabelsFrom wraps an existing translator.
func NewActionLabelsFrom(t *Translator) *ActionLabels {
	return &ActionLabels{t: t}
}

// Translator exposes the underlying translator, e.g. for language negotiation.
func (l *ActionLabels) Translator() *Translator {
	return l.t
}

func (l *ActionLabels) Label(lang, kind, toState string) string {
	keys := [2]string{"actions." + kind + "." + toState, "actions.default." + toState}

	matched := l.t.Match(lang)
	langs := []string{matched}
	if def := l.t.DefaultLanguage(); def != matched {
		langs = append(langs, def)
	}
	for _, lang := range langs {
		for _, key := range keys {
			if s, ok := l.t.get(lang, key); ok {
				return s
			}
		}
	}
	return ""
}
