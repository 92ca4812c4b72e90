// Package planner turns a node/edge graph into topological execution waves:
// groups of node IDs with no dependency between members of the same group,
// ordered so that every dependency's wave precedes its dependents'.
package planner

import (
	"errors"
	"sort"
)

// ErrCycleDetected is returned when the graph contains a cycle, which makes
// a total wave ordering impossible.
var ErrCycleDetected = errors.New("cycle detected in workflow graph")

// Graph is the minimal shape planner needs: every node ID and the directed
// edges between them (Edges[from] -> []to).
type Graph struct {
	NodeIDs []string
	Edges   map[string][]string
}

// Plan computes the execution waves for g using Kahn's algorithm. Each wave
// is sorted by node ID for deterministic output; this has no bearing on
// correctness since members of one wave have no dependency on each other.
func Plan(g Graph) ([][]string, error) {
	nodeSet := make(map[string]bool, len(g.NodeIDs))
	for _, id := range g.NodeIDs {
		nodeSet[id] = true
	}

	inDegree := make(map[string]int, len(g.NodeIDs))
	for _, id := range g.NodeIDs {
		inDegree[id] = 0
	}
	for from, targets := range g.Edges {
		if !nodeSet[from] {
			continue
		}
		for _, to := range targets {
			if !nodeSet[to] {
				continue
			}
			inDegree[to]++
		}
	}

	remaining := len(inDegree)
	waves := make([][]string, 0)

	for remaining > 0 {
		wave := make([]string, 0)
		for id, degree := range inDegree {
			if degree == 0 {
				wave = append(wave, id)
			}
		}
		if len(wave) == 0 {
			return nil, ErrCycleDetected
		}
		sort.Strings(wave)

		for _, id := range wave {
			delete(inDegree, id)
			remaining--
			for _, child := range g.Edges[id] {
				if _, ok := inDegree[child]; ok {
					inDegree[child]--
				}
			}
		}
		waves = append(waves, wave)
	}

	return waves, nil
}
