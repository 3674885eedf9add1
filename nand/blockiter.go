package nand

// nextGood walks forward from current+1, wrapping at startBlk+len back to
// startBlk, and returns the first block the driver does not report bad.
// It returns ErrRingExhausted once it has inspected every block in the
// ring's span without finding a good one, rather than spinning forever
// if no good block exists at all.
func nextGood(drv Driver, startBlk, length, current uint32) (uint32, error) {
	for i := uint32(0); i < length; i++ {
		current++
		if current == startBlk+length {
			current = startBlk
		}
		if !drv.IsBad(current) {
			return current, nil
		}
	}
	return 0, ErrRingExhausted
}

// firstGood returns the first good block in the ring, defined as
// next_good(start_blk + len - 1).
func firstGood(drv Driver, startBlk, length uint32) (uint32, error) {
	return nextGood(drv, startBlk, length, startBlk+length-1)
}

// eraseNext repeatedly finds the next good block and erases it; if erase
// fails it marks that block bad and tries the next one. The returned
// block is guaranteed erased. The retry is bounded by length, unlike an
// unconditional retry loop that could spin forever.
func eraseNext(drv Driver, startBlk, length, curBlk uint32) (uint32, error) {
	attempt := curBlk
	for i := uint32(0); i < length; i++ {
		blk, err := nextGood(drv, startBlk, length, attempt)
		if err != nil {
			return 0, err
		}
		if err := drv.Erase(blk); err != nil {
			drv.MarkBad(blk)
			attempt = blk
			continue
		}
		return blk, nil
	}
	return 0, ErrRingExhausted
}

// totalGood counts the blocks in [startBlk, startBlk+length) the driver
// does not report bad.
func totalGood(drv Driver, startBlk, length uint32) uint32 {
	var n uint32
	for b := startBlk; b < startBlk+length; b++ {
		if !drv.IsBad(b) {
			n++
		}
	}
	return n
}
