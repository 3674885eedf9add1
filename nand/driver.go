package nand

// Driver is the NAND collaborator the ring engine is built on top of.
// Page program, page read, block erase, bad-block marking, ECC
// computation, and data-move are all assumed correct primitives supplied
// by a real driver or, for tests, by package nandsim.
//
// Every method that can fail at the media level returns a plain error
// (nil on success).
type Driver interface {
	// Blocks returns the total number of physical blocks the device
	// exposes, used only to validate that a ring's configured span fits.
	Blocks() uint32

	// PagesPerBlock, PageDataSize, and PageSpareSize describe the fixed
	// geometry of every page on the device.
	PagesPerBlock() uint32
	PageDataSize() uint32
	PageSpareSize() uint32

	// ReadPageSpare reads exactly len(buf) bytes of spare-area data for
	// (blk, page) into buf.
	ReadPageSpare(blk, page uint32, buf []byte) error

	// WritePageData programs data into the data region of (blk, page) and
	// returns the driver-computed ECC for the programmed data.
	WritePageData(blk, page uint32, data []byte) (ecc uint32, err error)

	// WritePageSpare programs the spare region of (blk, page).
	WritePageSpare(blk, page uint32, spare []byte) error

	// WritePageWhole programs both data and spare regions of (blk, page)
	// in a single operation that bypasses any engine-side header sealing.
	// It is used only by the session closer to stamp deterministic,
	// CRC-invalid content over a possibly torn tail.
	WritePageWhole(blk, page uint32, whole []byte) error

	// Erase erases blk. The caller of Erase is responsible for having
	// verified blk is not marked bad.
	Erase(blk uint32) error

	// DataMove copies the first nPages pages of srcBlk into dstBlk,
	// through scratch, preserving their data and spare content exactly.
	// A driver without a native in-device copy primitive is expected to
	// emulate this with page-by-page read-then-program through scratch.
	DataMove(srcBlk, dstBlk, nPages uint32, scratch []byte) error

	// IsBad reports whether blk is marked bad. A bad block is never
	// written, erased, or chosen as a rescue/session-closer target.
	IsBad(blk uint32) bool

	// MarkBad marks blk bad. It is idempotent.
	MarkBad(blk uint32)
}
