// Package httpapi serves read-only JSON views of the consortium state and
// the event journal over chi.
package httpapi
