package banyan

import (
	"fmt"
	"os"
	"time"
)

// pipelineStats holds per-viewport timing and draw-call metrics for one
// render pass. Only populated when Scene.debug is true.
type pipelineStats struct {
	resolveTime time.Duration
	opaqueTime  time.Duration
	overlayTime time.Duration
	drawCalls   int
}

// logPipelineStats prints pass timing and draw-call stats to stderr.
func logPipelineStats(stats pipelineStats) {
	total := stats.resolveTime + stats.opaqueTime + stats.overlayTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[banyan] resolve: %v | opaque: %v | overlay: %v | total: %v\n",
		stats.resolveTime, stats.opaqueTime, stats.overlayTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[banyan] draw calls: %d\n", stats.drawCalls)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called when the scene is in debug mode. In
// release mode callers skip this entirely.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("banyan debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[banyan] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[banyan] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}
