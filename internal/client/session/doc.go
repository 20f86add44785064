// Package session owns the operator's credential lifecycle: restoring a
// stored session at startup, logging in, logging out and handing the
// current token to the request pipeline.
//
// Nothing is authoritative until Initialize has run. Token reports no token
// before then, and UI code should wait on Ready before deciding whether to
// show the login prompt.
package session
