// Package middleware provides the gin middleware applied to every request:
// request ids, structured request logging, panic recovery and token
// authentication.
package middleware
