// Package ingestion indexes directories of HTML pages into the page
// store. Files are extracted and upserted concurrently on a worker pool;
// individual page failures are logged and skipped.
package ingestion
