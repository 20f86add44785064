// Package fetchers keeps the latest server snapshot of each dashboard
// collection: customer profiles, the matches for one profile and the
// headline statistics.
//
// A successful fetch replaces the whole snapshot. A failed fetch leaves the
// previous snapshot in place and only updates the loading and error state.
// When calls overlap, only the most recently started one may change state.
package fetchers
