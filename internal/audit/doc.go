// Package audit reconstructs a merged audit timeline for a focused review
// item from up to three independent log streams: vehicle-scoped search,
// session audit, and decision audit. Sources are fetched concurrently,
// individual source failures degrade to zero entries, and the merged result
// is sorted newest-first with duplicate entry ids removed.
package audit
