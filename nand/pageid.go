package nand

// PageID is the decoded view of a page identifier. The on-disk encoding
// overloads the raw value 0 for two distinct conditions — "never
// programmed" and "header CRC invalid" — as PAGE_ID_WASTED. That overload
// is confined to the wire boundary (spareCodec.encode/decode): everywhere
// else in the engine, code branches on PageID.Valid rather than comparing
// a raw uint64 to the reserved constant.
type PageID struct {
	Valid bool
	ID    uint64
}

// PageIDWasted is the decoded form of a page with no valid record: either
// the header CRC failed, or the page was never programmed (erased flash
// reads as 0xFF, whose CRC will not match).
var PageIDWasted = PageID{}

// PageIDFirst is the lowest identifier that may appear on a valid page.
var PageIDFirst = PageID{Valid: true, ID: 1}

// Less reports whether id precedes other in the ring's total order. This
// order must match write order for any two successfully sealed pages.
func (id PageID) Less(other PageID) bool {
	if !id.Valid {
		return other.Valid
	}
	if !other.Valid {
		return false
	}
	return id.ID < other.ID
}

// Next returns the identifier to stamp on the page following id.
func (id PageID) Next() PageID {
	ringpanic(id.Valid, "Next called on a wasted PageID")
	return PageID{Valid: true, ID: id.ID + 1}
}
