// Package cli implements the interactive operator console.
//
// The console is a read-eval-print loop over dashboard.Dashboard. It lists
// customer profiles and their matches as text tables, lets the operator
// search, filter, sort and page them, and prints pending diagnostics after
// every command.
package cli
