package ingestion

import "errors"

var (
	// ErrPageRepositoryRequired is returned when a page repository is not provided.
	ErrPageRepositoryRequired = errors.New("page repository required")

	// ErrExtractorRequired is returned when an extractor is not provided.
	ErrExtractorRequired = errors.New("extractor required")
)
