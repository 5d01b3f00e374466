package reporters

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
	"github.com/louisbranch/flightsurety/internal/services/surety/reporter"
)

// Fleet describes the reporters to run, as read from a TOML file:
//
//	server = "localhost:8090"
//	count = 20
//	seed = 7
//
//	[[reporter]]
//	id = "reporter-ontime"
//	strategy = "fixed"
//	status = "on_time"
type Fleet struct {
	Server    string         `toml:"server"`
	Count     int            `toml:"count"`
	Seed      uint64         `toml:"seed"`
	Prefix    string         `toml:"prefix"`
	Reporters []ReporterSpec `toml:"reporter"`
}

// ReporterSpec configures one reporter.
type ReporterSpec struct {
	ID       string `toml:"id"`
	Strategy string `toml:"strategy"`
	Status   string `toml:"status"`
	Seed     uint64 `toml:"seed"`
}

// LoadFleet reads a fleet file. An empty path yields an empty fleet.
func LoadFleet(path string) (Fleet, error) {
	var fleet Fleet
	if strings.TrimSpace(path) == "" {
		return fleet, nil
	}
	meta, err := toml.DecodeFile(path, &fleet)
	if err != nil {
		return Fleet{}, fmt.Errorf("read fleet file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Fleet{}, fmt.Errorf("unknown fleet keys: %v", undecoded)
	}
	return fleet, nil
}

// Node is a resolved reporter: its principal and strategy.
type Node struct {
	ID       principal.Principal
	Strategy reporter.Strategy
}

// Nodes resolves the listed reporters followed by Count generated random
// reporters.
func (f Fleet) Nodes() ([]Node, error) {
	prefix := f.Prefix
	if prefix == "" {
		prefix = "reporter"
	}
	nodes := make([]Node, 0, len(f.Reporters)+f.Count)
	seen := make(map[principal.Principal]bool)
	add := func(id principal.Principal, strategy reporter.Strategy) error {
		if seen[id] {
			return fmt.Errorf("duplicate reporter %q", id)
		}
		seen[id] = true
		nodes = append(nodes, Node{ID: id, Strategy: strategy})
		return nil
	}

	for i, spec := range f.Reporters {
		id, err := principal.Parse(spec.ID)
		if err != nil {
			return nil, fmt.Errorf("reporter %d: %w", i, err)
		}
		seed := spec.Seed
		if seed == 0 {
			seed = f.Seed + uint64(i) + 1
		}
		strategy, err := reporter.ParseStrategy(spec.Strategy, spec.Status, seed)
		if err != nil {
			return nil, fmt.Errorf("reporter %s: %w", id, err)
		}
		if err := add(id, strategy); err != nil {
			return nil, err
		}
	}
	for i := 0; i < f.Count; i++ {
		id := principal.Principal(fmt.Sprintf("%s-%03d", prefix, i+1))
		if err := add(id, reporter.NewRandom(f.Seed+uint64(len(f.Reporters)+i)+1)); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}
