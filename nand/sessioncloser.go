package nand

import "go.uber.org/zap"

// closePrevSession overwrites every page in [lastPage, ppb) of lastBlk with
// a deterministic, CRC-invalid pattern (data region zeroed, bad-mark bytes
// set to 0xFF, remainder zero), using a whole-page write that bypasses
// header sealing, then erases the next good block. It returns the new
// cur_blk. A program failure during the overwrite marks lastBlk bad and
// ends the overwrite of that block, but does not abort the close — the
// successor block is still erased.
func closePrevSession(drv Driver, log *zap.SugaredLogger, startBlk, length, pagesPerBlock uint32, lastBlk, lastPage uint32) (uint32, error) {
	if lastPage != pagesPerBlock-1 {
		whole := make([]byte, int(drv.PageDataSize())+int(drv.PageSpareSize()))
		// data region already zero; mark bad_mark bytes 0xFF.
		badMarkOff := int(drv.PageDataSize())
		whole[badMarkOff] = 0xFF
		whole[badMarkOff+1] = 0xFF

		for page := lastPage; page < pagesPerBlock; page++ {
			if err := drv.WritePageWhole(lastBlk, page, whole); err != nil {
				if log != nil {
					log.Warnw("session close: whole-page write failed, marking block bad",
						"block", lastBlk, "page", page, "err", err)
				}
				drv.MarkBad(lastBlk)
				// A bad block is never written again; the close goes on
				// to erase the successor block.
				break
			}
		}
	}

	return eraseNext(drv, startBlk, length, lastBlk)
}
