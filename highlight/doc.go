// Package highlight marks query matches inside a parsed HTML subtree and
// restores the subtree afterwards. Marks are transient: every Apply
// schedules its own removal, and a later Apply or an explicit Clear
// supersedes it.
package highlight
