// Package reindex rebuilds every stored page record from its source file
// under a site root.
//
// Pages are processed in batches with progress tracking and retry logic
// with exponential backoff for flaky filesystem reads. Pages whose source
// file no longer exists are dropped from the store.
package reindex
