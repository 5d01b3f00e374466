// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing the surety server and waiting for
// it to report healthy.
const GRPCDial = 5 * time.Second

// GRPCRequest caps the time allowed for a single unary call from a client.
const GRPCRequest = 3 * time.Second

// ReadHeader limits how long the query HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second
