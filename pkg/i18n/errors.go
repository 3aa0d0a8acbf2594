package i18n

import "errors"

var (
	ErrNilAdapter           = errors.New("translation adapter is nil")
	ErrYAMLParsingCancelled = errors.New("yaml parsing cancelled")
	ErrFailedToParseYAML    = errors.New("failed to parse YAML content")

	ErrLoadingTranslationsCancelled = errors.New("loading translations cancelled")
	ErrFailedToReadCatalogDirectory = errors.New("failed to read catalog directory")
	ErrFailedToReadCatalogFile      = errors.New("failed to read catalog file")
	ErrFailedToParseCatalogFile     = errors.New("failed to parse catalog file")
	ErrNoCatalogFiles               = errors.New("no catalog files found")
)
