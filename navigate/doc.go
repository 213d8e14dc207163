// Package navigate resolves a selected search match into a viewport
// action. A match on the page being viewed scrolls into place and
// highlights; a match elsewhere stores a pending highlight pair in the
// session store and navigates, and the arrival handler finishes the job
// on the next page load.
package navigate
