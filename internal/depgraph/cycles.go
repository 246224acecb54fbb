// SPDX-License-Identifier: MPL-2.0

package depgraph

import (
	"github.com/jhipster/generator-jhipster-sub006/internal/namespace"
)

// Cycles returns every import cycle among resolved generators, each as the
// path of namespaces from the first generator back to itself. Cycles do not
// break resolution; the result is informational and deterministic.
func (s *Set) Cycles() [][]namespace.Namespace {
	const (
		unvisited = iota
		inProgress
		done
	)

	order := s.Order()
	state := make(map[namespace.Namespace]int, len(order))
	var stack []namespace.Namespace
	var cycles [][]namespace.Namespace

	var visit func(ns namespace.Namespace)
	visit = func(ns namespace.Namespace) {
		state[ns] = inProgress
		stack = append(stack, ns)

		for _, next := range s.Imports(ns) {
			switch state[next] {
			case unvisited:
				visit(next)
			case inProgress:
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == next {
						cycle := append([]namespace.Namespace(nil), stack[i:]...)
						cycles = append(cycles, append(cycle, next))
						break
					}
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[ns] = done
	}

	for _, ns := range order {
		if state[ns] == unvisited {
			visit(ns)
		}
	}
	return cycles
}
