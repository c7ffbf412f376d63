// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"fmt"
	"slices"
	"strings"
)

type (
	// CycleError indicates that the ordering constraints form a cycle.
	// Cycle names every module still blocked when ordering stalled,
	// sorted for stable output.
	CycleError struct {
		Cycle []string
	}

	// graph is a directed constraint graph over module identifiers.
	// An edge from A to B means A must load before B.
	graph struct {
		// adjacency maps each node to the nodes that must load after it.
		adjacency map[string][]string
		// nodes tracks all nodes in insertion order.
		nodes []string
		// nodeSet provides O(1) lookup for node existence.
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("module load cycle: %s", strings.Join(e.Cycle, " -> "))
}

func newGraph() *graph {
	return &graph{
		adjacency: make(map[string][]string),
		nodeSet:   make(map[string]bool),
	}
}

// addNode adds a node to the graph. Adding an existing node is a no-op.
func (g *graph) addNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// addEdge adds a directed edge from -> to, meaning "from" loads before "to".
// Both nodes are implicitly added.
func (g *graph) addEdge(from, to string) {
	g.addNode(from)
	g.addNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// topoSort returns a load order using Kahn's algorithm. Whenever several
// modules are simultaneously unblocked, the lexicographically smallest
// identifier loads first, so the order is a pure function of the input.
func (g *graph) topoSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = 0
	}
	for _, neighbors := range g.adjacency {
		for _, nb := range neighbors {
			inDegree[nb]++
		}
	}

	// ready holds currently unblocked nodes, kept sorted.
	var ready []string
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			ready = append(ready, node)
		}
	}
	slices.Sort(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		node := ready[0]
		ready = ready[1:]
		order = append(order, node)

		for _, nb := range g.adjacency[node] {
			inDegree[nb]--
			if inDegree[nb] == 0 {
				at, _ := slices.BinarySearch(ready, nb)
				ready = slices.Insert(ready, at, nb)
			}
		}
	}

	if len(order) != len(g.nodes) {
		// Everything with a positive in-degree is part of, or blocked
		// behind, a cycle.
		var cycle []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				cycle = append(cycle, node)
			}
		}
		slices.Sort(cycle)
		return nil, &CycleError{Cycle: cycle}
	}

	return order, nil
}
