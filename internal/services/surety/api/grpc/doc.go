// Package grpc groups the gRPC transport of the surety server: request
// metadata handling and the SuretyService implementation.
package grpc
