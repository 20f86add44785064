// Package api is the authenticated request pipeline of the dashboard.
//
// Client.Do builds the URL from the configured base, attaches the bearer
// token supplied by a TokenSource, encodes JSON bodies and classifies every
// outcome into an *Error whose Kind callers can branch on (or test with
// errors.Is against the package sentinels):
//
//	401          KindUnauthenticated
//	403          KindUnauthorized
//	other 4xx    KindClient
//	5xx          KindServer
//	no response  KindNetwork
//
// The client never ends the session itself. Deciding what to do about an
// Unauthenticated result is left to the caller.
package api
