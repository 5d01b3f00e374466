package migrations

import "embed"

// EventsFS holds the event journal schema.
//
//go:embed events/*.sql
var EventsFS embed.FS
