package surfaceinput

import "fmt"

// StateSource Anything that can produce a contact snapshot.
type StateSource interface {
	GetState() (Snapshot, error)
}

// Poller Reads one snapshot per cycle.
type Poller struct {
	source StateSource
}

// NewPoller Polls source.
func NewPoller(source StateSource) *Poller {
	return &Poller{source: source}
}

// Poll Returns the current contacts. The returned slice belongs to the
// caller. Failures are wrapped in ErrPollFailed.
func (p *Poller) Poll() (Snapshot, error) {
	snap, err := p.source.GetState()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPollFailed, err)
	}
	return snap.Clone(), nil
}
