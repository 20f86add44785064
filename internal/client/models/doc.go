// Package models defines the wire types of the dashboard API: the operator
// identity, customer profiles, computed matches and the error envelope the
// server uses for failures.
//
// Types mirror the server's snake_case JSON and are treated as read-only
// snapshots once decoded.
package models
