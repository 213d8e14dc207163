// Package overlay is the UI boundary: an overlay controller exposing the
// open/close, query-changed and result-selected contract over the search
// and navigation layers, plus an HTTP handler serving the same contract
// as a small JSON API.
package overlay
