package simulator

import "github.com/octoreflex/fbas-analyzer/internal/fbas"

// Monitor observes simulator events during growth. Implementations must
// not mutate net.
type Monitor interface {
	// NodeAdded is called once per node, immediately after it is appended
	// and before stabilization runs.
	NodeAdded(id fbas.NodeId, net *fbas.Network)

	// PassCompleted is called after every full configure pass over all
	// nodes during stabilization, whether or not it changed anything.
	PassCompleted(pass int, net *fbas.Network)

	// Stabilized is called once SimulateGrowth has added and stabilized
	// all requested nodes.
	Stabilized(net *fbas.Network)
}

// NoOpMonitor implements Monitor with no observable behavior.
type NoOpMonitor struct{}

func (NoOpMonitor) NodeAdded(fbas.NodeId, *fbas.Network) {}
func (NoOpMonitor) PassCompleted(int, *fbas.Network)     {}
func (NoOpMonitor) Stabilized(*fbas.Network)             {}

var _ Monitor = NoOpMonitor{}
