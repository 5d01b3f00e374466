// Package integrity seals journal events with content hashes, a hash chain and
// HMAC signatures, and verifies sealed sequences.
package integrity
