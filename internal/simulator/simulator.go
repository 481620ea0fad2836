// Package simulator grows an Fbas node by node under a pluggable
// configurator, stabilizing to a fixpoint after each addition.
package simulator

import (
	"context"
	"fmt"

	"github.com/octoreflex/fbas-analyzer/internal/configurator"
	"github.com/octoreflex/fbas-analyzer/internal/fbas"
)

// DefaultMaxStabilizePasses bounds the number of full configure passes a
// single node addition may trigger before SimulateGrowth gives up and
// reports nonconvergence.
const DefaultMaxStabilizePasses = 10_000

// NonConvergenceError is returned when stabilization fails to reach a
// fixpoint within MaxStabilizePasses full passes over all nodes.
type NonConvergenceError struct {
	Passes int
	Nodes  int
}

func (e *NonConvergenceError) Error() string {
	return fmt.Sprintf("simulator: failed to converge after %d passes over %d nodes", e.Passes, e.Nodes)
}

// Simulator grows an Fbas under a QuorumSetConfigurator, notifying a
// Monitor of each event.
type Simulator struct {
	Fbas               *fbas.Network
	Configurator       configurator.QuorumSetConfigurator
	Monitor            Monitor
	MaxStabilizePasses int
}

// New builds a Simulator over net, applying cfg's policy as nodes are
// added, and notifying mon. A nil mon is replaced with NoOpMonitor{}.
func New(net *fbas.Network, cfg configurator.QuorumSetConfigurator, mon Monitor) *Simulator {
	if mon == nil {
		mon = NoOpMonitor{}
	}
	return &Simulator{
		Fbas:               net,
		Configurator:       cfg,
		Monitor:            mon,
		MaxStabilizePasses: DefaultMaxStabilizePasses,
	}
}

// SimulateGrowth appends k fresh nodes to the Fbas one at a time. After
// each addition, it repeatedly invokes the configurator over every node
// (ascending NodeId order) until a full pass leaves every node unchanged.
// Returns a *NonConvergenceError if any single addition fails to
// stabilize within MaxStabilizePasses passes.
func (s *Simulator) SimulateGrowth(ctx context.Context, k int) error {
	for i := 0; i < k; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		id := s.Fbas.AddNode(nil)
		s.Monitor.NodeAdded(id, s.Fbas)

		if err := s.stabilize(ctx); err != nil {
			return err
		}
	}
	s.Monitor.Stabilized(s.Fbas)
	return nil
}

func (s *Simulator) stabilize(ctx context.Context) error {
	passes := s.MaxStabilizePasses
	if passes <= 0 {
		passes = DefaultMaxStabilizePasses
	}

	for pass := 0; pass < passes; pass++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		anyChange := false
		for i := 0; i < s.Fbas.Len(); i++ {
			if s.Configurator.Configure(fbas.NodeId(i), s.Fbas) == configurator.Change {
				anyChange = true
			}
		}
		s.Monitor.PassCompleted(pass, s.Fbas)

		if !anyChange {
			return nil
		}
	}

	return &NonConvergenceError{Passes: passes, Nodes: s.Fbas.Len()}
}
