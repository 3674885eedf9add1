package nand

// RingSession is the user-visible concept of a contiguous run of appends
// between two mounts. It is declared here so callers can compile against
// the eventual contract, but enumerating sessions from the ring is not
// implemented — see SearchSessions.
type RingSession struct {
	Start      PageID
	End        PageID
	FirstBlock uint32
	LastBlock  uint32
}

// SearchSessions is declared but not implemented. The contract for what
// constitutes a session boundary in a monotonic id stream is not pinned
// down anywhere this engine's behavior is otherwise specified, and
// guessing at it is out of scope; this returns
// ErrSearchSessionsUnspecified rather than a fabricated implementation.
func (r *Ring) SearchSessions(maxSessions int) ([]RingSession, error) {
	ringpanic(r.state == StateMounted, "SearchSessions requires StateMounted")
	return nil, ErrSearchSessionsUnspecified
}

// SetUTCCorrection updates the opaque 32-bit offset copied into the
// header of every page sealed from this call forward. Unlike
// SearchSessions, its contract is fully specified — opaque to the engine,
// copied verbatim into each page header — so this is implemented even
// though it has no effect on the engine's own behavior.
func (r *Ring) SetUTCCorrection(v uint32) {
	ringpanic(r.state == StateMounted, "SetUTCCorrection requires StateMounted")
	r.utcCorrection = v
}
