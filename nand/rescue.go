package nand

import "go.uber.org/zap"

// dataRescueMaxAttempts bounds the mark-bad-and-retry loop in
// blockDataRescue, rather than retrying unconditionally.
const dataRescueMaxAttempts = 8

// blockDataRescue migrates the good prefix of pages [0, failedPage) out of
// failedBlk into a freshly erased block and marks failedBlk bad. If
// failedPage == 0 there is nothing to preserve and it simply allocates a
// fresh block. The failed page's identifier is not decremented by this
// function — monotonicity is preserved across the gap this rescue
// introduces, but density is not.
func blockDataRescue(drv Driver, log *zap.SugaredLogger, startBlk, length, curBlk, failedBlk, failedPage uint32, scratch []byte) (uint32, error) {
	drv.MarkBad(failedBlk)

	if failedPage == 0 {
		return eraseNext(drv, startBlk, length, curBlk)
	}

	for attempt := 0; attempt < dataRescueMaxAttempts; attempt++ {
		target, err := eraseNext(drv, startBlk, length, curBlk)
		if err != nil {
			return 0, err
		}
		if err := drv.DataMove(failedBlk, target, failedPage, scratch); err != nil {
			if log != nil {
				log.Warnw("rescue: data_move failed, retrying on a new target",
					"failed_block", failedBlk, "target", target, "n_pages", failedPage, "err", err)
			}
			drv.MarkBad(target)
			curBlk = target
			continue
		}
		return target, nil
	}
	return 0, ErrRingExhausted
}
