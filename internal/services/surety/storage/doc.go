// Package storage defines the persistence contracts shared by the surety
// journal backends.
package storage
