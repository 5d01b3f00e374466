// Package surety implements flightsurety.v1.SuretyService on top of the
// engine, the journal and the event bus.
//
// Commands go through one ExecuteCommand method; each query has its own
// method; SubscribeEvents streams the journal from a sequence and then
// follows the live bus.
package surety
