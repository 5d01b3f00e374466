package oracle

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// generator returns a PCG stream seeded from the SHA-256 of parts. The same
// parts always yield the same stream.
func generator(parts ...string) *rand.Rand {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return rand.New(rand.NewPCG(binary.BigEndian.Uint64(sum[:8]), binary.BigEndian.Uint64(sum[8:16])))
}

// DeriveIndexes draws IndexesPerReporter distinct indexes in [0, IndexSpace)
// for a reporter at a registration counter, in ascending order.
func DeriveIndexes(reporter principal.Principal, counter uint64) []int {
	rng := generator("reporter", string(reporter), strconv.FormatUint(counter, 10))
	indexes := make([]int, 0, IndexesPerReporter)
	for len(indexes) < IndexesPerReporter {
		idx := rng.IntN(IndexSpace)
		if !slices.Contains(indexes, idx) {
			indexes = append(indexes, idx)
		}
	}
	slices.Sort(indexes)
	return indexes
}

// DeriveRequestIndex draws the index a status request is addressed to.
func DeriveRequestIndex(key flight.Key, counter uint64) int {
	return generator("request", key.String(), strconv.FormatUint(counter, 10)).IntN(IndexSpace)
}
