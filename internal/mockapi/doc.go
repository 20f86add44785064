// Package mockapi is an in-process stand-in for the matchmaking backend.
// It serves the same JSON API as the real service: login with first-login
// registration, the profiles assigned to the operator, computed matches
// for one profile and the dashboard statistics. Profiles and match scores
// are generated deterministically from a seed so that runs are repeatable.
package mockapi
