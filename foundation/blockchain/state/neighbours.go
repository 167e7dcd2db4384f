package state

import (
	"context"
	"fmt"
)

// RefreshNeighbours replaces the neighbour list with what the discovery
// provider currently reports. On failure the previous list is kept.
func (s *State) RefreshNeighbours(ctx context.Context) error {
	hosts, err := s.discovery.Find(ctx)
	if err != nil {
		return fmt.Errorf("finding neighbours: %w", err)
	}

	filtered := hosts[:0]
	for _, host := range hosts {
		if host != s.host {
			filtered = append(filtered, host)
		}
	}

	s.knownPeers.Replace(filtered)

	s.evHandler("state: RefreshNeighbours: neighbours[%v]", filtered)

	return nil
}
