// Package diag collects operator-facing errors and notifications.
//
// Errors stay until dismissed or until the periodic sweep finds them older
// than the configured maximum age. Notifications expire on their own timer
// unless marked persistent. Every change is announced on an event bus so a
// UI loop can redraw without polling.
package diag
