package object

import "sync/atomic"

// RC is the intrusive reference count every heap Object embeds. SAPF has
// no garbage collector: ownership is explicit, and cycles are forbidden
// except through the deliberate indirections Ref/ZRef/Plug/ZPlug provide.
type RC struct {
	n atomic.Int32
}

// NewRC returns a reference count initialized to one owning reference.
func NewRC() RC {
	rc := RC{}
	rc.n.Store(1)
	return rc
}

// Retain adds one owning reference.
func (rc *RC) Retain() { rc.n.Add(1) }

// Release drops one owning reference and reports whether the count
// reached zero (the caller should drop the object's own references to
// its children at that point).
func (rc *RC) Release() bool {
	return rc.n.Add(-1) == 0
}

// Count returns the current reference count, for diagnostics and tests.
func (rc *RC) Count() int32 { return rc.n.Load() }
