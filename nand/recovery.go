package nand

import "go.uber.org/zap"

// recoveryResult is the outcome of a successful two-phase recovery scan:
// the block and page holding the most recently sealed record in the ring,
// and its identifier.
type recoveryResult struct {
	block uint32
	page  uint32
	id    PageID
}

// errBlockNotFound is returned internally by scanLastWrittenBlock when no
// block in the ring yields an id >= PageIDFirst — the empty-ring case,
// which Mount handles by taking the mkfs path.
var errBlockNotFound = &sentinelError{"nand: no written block found in ring"}

type sentinelError struct{ s string }

func (e *sentinelError) Error() string { return e.s }

// scanLastWrittenBlock is recovery Phase 1. Starting at first_good(), it
// reads page 0 of every good block in ring order and tracks the block
// with the largest observed id, ties preferring the later-visited block —
// a deliberate, arbitrary choice for the interrupted-close edge case,
// where two blocks can legitimately carry the same maximum id.
func scanLastWrittenBlock(drv Driver, log *zap.SugaredLogger, startBlk, length uint32) (uint32, PageID, error) {
	first, err := firstGood(drv, startBlk, length)
	if err != nil {
		return 0, PageIDWasted, err
	}

	bestBlk := uint32(0)
	bestID := PageIDWasted
	found := false

	b := first
	for i := uint32(0); i < length; i++ {
		id, err := readPageID(drv, b, 0)
		if err != nil {
			return 0, PageIDWasted, err
		}
		if id.Valid && (!bestID.Valid || id.ID >= bestID.ID) {
			bestBlk = b
			bestID = id
			found = true
		}
		next, err := nextGood(drv, startBlk, length, b)
		if err != nil {
			return 0, PageIDWasted, err
		}
		if next == first {
			break
		}
		b = next
	}

	if !found {
		return 0, PageIDWasted, errBlockNotFound
	}
	if log != nil {
		log.Debugw("recovery: last written block", "block", bestBlk, "id", bestID.ID)
	}
	return bestBlk, bestID, nil
}

// scanLastWrittenPage is recovery Phase 2. Within blk, it scans every page
// and tracks the one with the largest valid id. Phase 1 guarantees at
// least one page qualifies; failing to find one here is fatal (a contract
// violation between the two phases), not a media condition, so it panics
// rather than returning an error.
func scanLastWrittenPage(drv Driver, log *zap.SugaredLogger, blk, pagesPerBlock uint32) (uint32, PageID) {
	bestPage := uint32(0)
	bestID := PageIDWasted
	found := false

	for page := uint32(0); page < pagesPerBlock; page++ {
		id, err := readPageID(drv, blk, page)
		ringpanic(err == nil, "recovery: read_page_id failed scanning last written page")
		if id.Valid && (!bestID.Valid || id.ID >= bestID.ID) {
			bestPage = page
			bestID = id
			found = true
		}
	}

	ringpanic(found, "recovery: last written block has no valid page")
	if log != nil {
		log.Debugw("recovery: last written page", "block", blk, "page", bestPage, "id", bestID.ID)
	}
	return bestPage, bestID
}

// mountRecovery runs both phases of mount-time recovery. errBlockNotFound
// signals the empty-ring case to Mount, which takes the mkfs path instead
// of treating it as a failure.
func mountRecovery(drv Driver, log *zap.SugaredLogger, startBlk, length, pagesPerBlock uint32) (recoveryResult, error) {
	blk, _, err := scanLastWrittenBlock(drv, log, startBlk, length)
	if err != nil {
		return recoveryResult{}, err
	}
	page, id := scanLastWrittenPage(drv, log, blk, pagesPerBlock)
	return recoveryResult{block: blk, page: page, id: id}, nil
}
