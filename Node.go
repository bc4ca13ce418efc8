package surfaceinput

import (
	"fmt"
	"log/slog"
	"sync"

	"kuldippatel.dev/surfaceinput/internal/log"
)

// Inputs Per-cycle configuration supplied by the host.
type Inputs struct {
	Enable          bool
	NormalizeValues bool
}

// Frame Four index-aligned output sequences; index i of each refers to the
// same contact.
type Frame struct {
	IDs       []int
	Positions []Vector2D
	Sizes     []Vector2D
	Rotations []float64
}

// Len Returns the number of contacts in the frame.
func (f Frame) Len() int {
	return len(f.IDs)
}

// Clone returns a deep copy of f.
func (f Frame) Clone() Frame {
	return Frame{
		IDs:       append([]int(nil), f.IDs...),
		Positions: append([]Vector2D(nil), f.Positions...),
		Sizes:     append([]Vector2D(nil), f.Sizes...),
		Rotations: append([]float64(nil), f.Rotations...),
	}
}

// resize sets every sequence to exactly n entries, reusing storage.
func (f *Frame) resize(n int) {
	if cap(f.IDs) < n {
		f.IDs = make([]int, n)
		f.Positions = make([]Vector2D, n)
		f.Sizes = make([]Vector2D, n)
		f.Rotations = make([]float64, n)
		return
	}
	f.IDs = f.IDs[:n]
	f.Positions = f.Positions[:n]
	f.Sizes = f.Sizes[:n]
	f.Rotations = f.Rotations[:n]
}

func (f *Frame) set(i int, nc NormalizedContact) {
	f.IDs[i] = nc.ID
	f.Positions[i] = nc.Position
	f.Sizes[i] = nc.Size
	f.Rotations[i] = nc.Rotation
}

// NodeOption Configures a Node.
type NodeOption func(*Node)

// WithNodeLogger Sets the node logger.
func WithNodeLogger(l *slog.Logger) NodeOption {
	return func(n *Node) {
		n.logger = l
	}
}

// Node The per-instance core a host evaluates once per frame. It keeps the
// last computed frame, which stays visible while polling is disabled or
// after a failed poll.
type Node struct {
	lease      *Lease
	poller     *Poller
	normalizer *Normalizer
	refresh    bool
	logger     *slog.Logger

	mu      sync.Mutex
	last    Frame
	enabled bool
	closed  bool
}

// NewNode Is the construction hook: it leases target, opening it if this
// is the first node, and captures the reference dimensions. Lifecycle
// errors are returned as is; the node is unusable after one.
func NewNode(target *Target, cfg Config, opts ...NodeOption) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := &Node{
		refresh: cfg.RefreshReference,
		enabled: true,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = log.With("component", "node")
	}

	lease, err := target.Acquire()
	if err != nil {
		return nil, fmt.Errorf("acquire touch target: %w", err)
	}

	ref, err := resolveReference(target, cfg)
	if err != nil {
		_ = lease.Release()
		return nil, err
	}
	normalizer, err := NewNormalizer(ref)
	if err != nil {
		_ = lease.Release()
		return nil, err
	}

	n.lease = lease
	n.poller = NewPoller(target)
	n.normalizer = normalizer
	n.logger.Debug("node ready",
		"variant", cfg.Variant,
		"position_ref", ref.Position,
		"size_ref", ref.Size)
	return n, nil
}

func resolveReference(target *Target, cfg Config) (Reference, error) {
	if cfg.Reference != nil {
		return *cfg.Reference, nil
	}
	if cfg.Variant == VariantLegacy {
		return LegacyReference, nil
	}
	return screenReference(target)
}

func screenReference(target *Target) (Reference, error) {
	dims, err := target.ScreenSize()
	if err != nil {
		return Reference{}, fmt.Errorf("query surface size: %w", err)
	}
	return Reference{Position: dims, Size: dims}, nil
}

// Evaluate Runs one cycle. When in.Enable is false nothing is polled and
// the previous frame stays. A poll failure is returned and also leaves the
// previous frame in place.
func (n *Node) Evaluate(in Inputs) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrDisposed
	}
	if in.Enable != n.enabled {
		n.enabled = in.Enable
		n.logger.Info("polling toggled", "enable", in.Enable)
	}
	if !in.Enable {
		return nil
	}

	if n.refresh {
		ref, err := screenReference(n.lease.Target())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPollFailed, err)
		}
		if ref != n.normalizer.Reference() {
			normalizer, err := NewNormalizer(ref)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrPollFailed, err)
			}
			n.normalizer = normalizer
			n.logger.Info("surface size changed", "width", ref.Size.Width, "height", ref.Size.Height)
		}
	}

	contacts, err := n.poller.Poll()
	if err != nil {
		n.logger.Warn("keeping last frame", "err", err)
		return err
	}

	n.last.resize(len(contacts))
	for i, c := range contacts {
		n.last.set(i, n.normalizer.Normalize(c, in.NormalizeValues))
	}
	return nil
}

// Frame Returns a copy of the last computed frame.
func (n *Node) Frame() Frame {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last.Clone()
}

// Contacts Returns the last frame as one record per contact.
func (n *Node) Contacts() []NormalizedContact {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]NormalizedContact, n.last.Len())
	for i := range out {
		out[i] = NormalizedContact{
			ID:       n.last.IDs[i],
			Position: n.last.Positions[i],
			Size:     n.last.Sizes[i],
			Rotation: n.last.Rotations[i],
		}
	}
	return out
}

// Close Is the teardown hook. It releases the node's lease; the target is
// disposed when no other node holds one.
func (n *Node) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	return n.lease.Release()
}
