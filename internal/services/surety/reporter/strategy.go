package reporter

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
)

// Strategy picks the status a node reports for a request.
type Strategy interface {
	Status(key flight.Key, index int) flight.Status
}

// Fixed always reports the same status.
type Fixed flight.Status

// Status implements Strategy.
func (f Fixed) Status(flight.Key, int) flight.Status {
	return flight.Status(f)
}

// statusCodes are the codes a random node draws from, unknown included.
var statusCodes = []flight.Status{
	flight.StatusUnknown,
	flight.StatusOnTime,
	flight.StatusLateAirline,
	flight.StatusLateWeather,
	flight.StatusLateTechnical,
	flight.StatusLateOther,
}

// Random draws statuses from a seeded generator, so a fleet started with the
// same seeds answers the same way.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a random strategy from seed.
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Status implements Strategy.
func (r *Random) Status(flight.Key, int) flight.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return statusCodes[r.rng.IntN(len(statusCodes))]
}

// ParseStrategy builds a strategy by name. Fixed strategies require status;
// random strategies use seed.
func ParseStrategy(name, status string, seed uint64) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fixed", "":
		if strings.TrimSpace(status) == "" {
			return nil, fmt.Errorf("fixed strategy requires a status")
		}
		s, err := flight.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		return Fixed(s), nil
	case "random":
		return NewRandom(seed), nil
	default:
		return nil, fmt.Errorf("unknown reporter strategy %q", name)
	}
}
