// Package middleware provides HTTP middleware for bearer token authentication
package middleware

import "net/http"

// Middleware wraps a handler.
type Middleware func(http.Handler) http.Handler

// Chain is an ordered list of middleware; the first entry sees the request first.
type Chain []Middleware

// NewChain creates a chain from mw.
func NewChain(mw ...Middleware) Chain {
	return append(Chain(nil), mw...)
}

// Append returns a new chain with mw added after c's middleware.
func (c Chain) Append(mw ...Middleware) Chain {
	out := make(Chain, 0, len(c)+len(mw))
	out = append(out, c...)
	return append(out, mw...)
}

// Then wraps handler with the chain.
func (c Chain) Then(handler http.Handler) http.Handler {
	for i := len(c) - 1; i >= 0; i-- {
		handler = c[i](handler)
	}
	return handler
}

// ThenFunc wraps handlerFunc with the chain.
func (c Chain) ThenFunc(handlerFunc http.HandlerFunc) http.Handler {
	return c.Then(handlerFunc)
}
