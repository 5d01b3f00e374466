// Package suretyv1 declares the flightsurety.v1.SuretyService wire contract:
// the service descriptor, client stubs and the JSON shapes carried inside
// google.protobuf.Struct messages.
package suretyv1
