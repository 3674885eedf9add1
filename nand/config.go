package nand

import "fmt"

// MinRingSize is the minimum number of physical blocks a ring may span.
// Mount additionally requires at least MinRingSize/2 of those blocks to
// be good.
const MinRingSize = 64

// MinGoodBlocks is the minimum number of good blocks Mount requires before
// it will bring a ring up.
const MinGoodBlocks = MinRingSize / 2

// RingConfig is the immutable configuration a Ring is bound to for the
// lifetime of a mount. It is a plain value type passed by value into
// Start.
type RingConfig struct {
	// StartBlk is the index of the ring's first physical block.
	StartBlk uint32

	// Len is the number of physical blocks in the ring.
	Len uint32

	// UTCCorrection is an opaque 32-bit offset copied into each page
	// header at seal time. It may be changed after mount via
	// Ring.SetUTCCorrection.
	UTCCorrection uint32
}

// validate checks the structural preconditions a ring configuration must
// meet against the concrete geometry of drv. Violations are caller misuse:
// Start panics rather than returning an error.
func (c RingConfig) validate(drv Driver) error {
	if c.Len < MinRingSize {
		return fmt.Errorf("nand: ring length %d below MinRingSize %d", c.Len, MinRingSize)
	}
	if drv == nil {
		return errNilDriver
	}
	if uint64(c.StartBlk)+uint64(c.Len) > uint64(drv.Blocks()) {
		return fmt.Errorf("nand: ring span [%d, %d) overflows device with %d blocks",
			c.StartBlk, uint64(c.StartBlk)+uint64(c.Len), drv.Blocks())
	}
	return nil
}
