// Package i18n loads translation catalogs and resolves localized strings.
//
// Catalogs are YAML files whose top-level keys are language codes; nested
// keys are addressed with dots ("actions.deal.closed"). A Translator is
// built from a TranslationAdapter (an in-memory map or any fs.FS, including
// embed.FS) and is safe for concurrent use.
//
// ActionLabels adapts the bundled workflow action catalog to the
// workflow.Labeler interface:
//
//	labels, err := i18n.NewActionLabels(ctx)
//	if err != nil {
//		return err
//	}
//	engine := workflow.NewEngine(registry, store, workflow.WithLabeler(labels))
//
// Language negotiation uses golang.org/x/text/language, so "mn-MN" or a
// full Accept-Language header resolves to the closest loaded catalog.
// Middleware stores the negotiated language in the request context.
package i18n
