package i18n

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
)

// TranslationAdapter loads a full set of translations keyed by language.
type TranslationAdapter interface {
	Load(ctx context.Context) (map[string]map[string]any, error)
}

// MapAdapter serves translations from an in-memory map.
type MapAdapter struct {
	Data map[string]map[string]any
}

func (a *MapAdapter) Load(_ context.Context) (map[string]map[string]any, error) {
	if a.Data == nil {
		return make(map[string]map[string]any), nil
	}
	return a.Data, nil
}

// FSAdapter loads every catalog file in dir that the parser understands.
// Works with embed.FS as well as os.DirFS.
type FSAdapter struct {
	parser Parser
	fsys   fs.FS
	dir    string
}

// NewFSAdapter returns nil if parser or fsys is nil.
func NewFSAdapter(parser Parser, fsys fs.FS, dir string) *FSAdapter {
	if parser == nil || fsys == nil {
		return nil
	}
	if dir == "" {
		dir = "."
	}
	return &FSAdapter{parser: parser, fsys: fsys, dir: dir}
}

func (a *FSAdapter) Load(ctx context.Context) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(ErrLoadingTranslationsCancelled, err)
	}

	entries, err := fs.ReadDir(a.fsys, a.dir)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadCatalogDirectory, err)
	}

	all := make(map[string]map[string]any)
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !a.parser.SupportsFileExtension(path.Ext(entry.Name())) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(ErrLoadingTranslationsCancelled, err)
		}
		if err := a.loadFile(ctx, path.Join(a.dir, entry.Name()), all); err != nil {
			return nil, err
		}
		loaded++
	}
	if loaded == 0 {
		return nil, fmt.Errorf("%w in %q", ErrNoCatalogFiles, a.dir)
	}
	return all, nil
}

// loadFile merges one catalog into all. Later files win on top-level key collisions.
func (a *FSAdapter) loadFile(ctx context.Context, name string, all map[string]map[string]any) error {
	content, err := fs.ReadFile(a.fsys, name)
	if err != nil {
		return errors.Join(ErrFailedToReadCatalogFile, err)
	}
	translations, err := a.parser.Parse(ctx, content)
	if err != nil {
		return errors.Join(ErrFailedToParseCatalogFile, fmt.Errorf("%s: %w", name, err))
	}
	for lang, entries := range translations {
		if all[lang] == nil {
			all[lang] = make(map[string]any, len(entries))
		}
		maps.Copy(all[lang], entries)
	}
	return nil
}
