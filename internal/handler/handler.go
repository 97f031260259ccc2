// Package handler is the HTTP layer that sits right after the router.
//
// Handlers receive payloads already bound and validated by Handle, call the
// service layer and return the value to serialize. System handlers (health,
// docs) live here too.
package handler
