package nand

import "go.uber.org/zap"

// State is a Ring's position in its lifecycle:
//
//	UNINIT --ObjectInit--> UNINIT --Start(config)--> IDLE
//	IDLE --Mount--> MOUNTED  (may return failure if < MIN/2 good blocks)
//	MOUNTED --WritePage*--> MOUNTED
//	MOUNTED --Umount--> IDLE
//	IDLE --Stop--> STOP
type State int

const (
	StateUninit State = iota
	StateIdle
	StateMounted
	StateStop
)

func (s State) String() string {
	switch s {
	case StateUninit:
		return "UNINIT"
	case StateIdle:
		return "IDLE"
	case StateMounted:
		return "MOUNTED"
	case StateStop:
		return "STOP"
	default:
		return "UNKNOWN"
	}
}

// Ring is the circular append-only NAND log engine. A Ring is owned
// exclusively by one logical writer; all public operations must be
// serialized by the caller — there is no internal locking.
type Ring struct {
	Log   *zap.SugaredLogger
	drv   Driver
	clock BootClock

	state State
	cfg   RingConfig

	curBlk  uint32
	curPage uint32
	curID   PageID

	// utcCorrection is read fresh into every header at seal time; it can
	// be updated mid-mount via SetUTCCorrection and takes effect starting
	// with the next WritePage.
	utcCorrection uint32

	// scratch is the ring's own rescue/close scratch buffer. It lives on
	// the Ring instance rather than as a package-level global, so distinct
	// *Ring values never share mutable state.
	scratch []byte
}

// NewRing constructs a Ring in StateUninit, bound to drv and clock — the
// two out-of-scope collaborators — and to log for diagnostics.
func NewRing(drv Driver, clock BootClock, log *zap.SugaredLogger) *Ring {
	ringpanic(drv != nil, errNilDriver.Error())
	ringpanic(clock != nil, errNilClock.Error())
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Ring{
		Log:   log,
		drv:   drv,
		clock: clock,
		state: StateUninit,
	}
}

// Start binds cfg to the ring and transitions StateUninit -> StateIdle.
// Configuration violations (undersized ring, ring overflowing the device,
// spare area too small for the header) are caller misuse and panic.
func (r *Ring) Start(cfg RingConfig) {
	ringpanic(r != nil, errNilRing.Error())
	ringpanic(r.state == StateUninit, "Start requires StateUninit")

	if err := cfg.validate(r.drv); err != nil {
		panic("nand: " + err.Error())
	}
	ringpanic(headerSize <= int(r.drv.PageSpareSize()), "spare area too small for page header")

	r.cfg = cfg
	r.utcCorrection = cfg.UTCCorrection
	r.state = StateIdle
}

// Mount runs recovery and transitions StateIdle -> StateMounted. It
// returns ErrNotEnoughGoodBlocks (not a panic — this is the one
// recoverable caller-visible error) if fewer than MinGoodBlocks blocks in
// the configured span are good.
func (r *Ring) Mount() error {
	ringpanic(r.state == StateIdle, "Mount requires StateIdle")

	if totalGood(r.drv, r.cfg.StartBlk, r.cfg.Len) < MinGoodBlocks {
		return ErrNotEnoughGoodBlocks
	}

	r.scratch = make([]byte, int(r.drv.PageDataSize())+int(r.drv.PageSpareSize()))

	res, err := mountRecovery(r.drv, r.Log, r.cfg.StartBlk, r.cfg.Len, r.drv.PagesPerBlock())
	switch {
	case err == errBlockNotFound:
		blk, err := r.mkfs()
		if err != nil {
			return err
		}
		r.curBlk = blk
		r.curPage = 0
		r.curID = PageIDFirst
	case err != nil:
		return &RingError{Op: "Mount", Err: err}
	default:
		blk, err := closePrevSession(r.drv, r.Log, r.cfg.StartBlk, r.cfg.Len, r.drv.PagesPerBlock(), res.block, res.page)
		if err != nil {
			return &RingError{Op: "Mount", Err: err}
		}
		r.curBlk = blk
		r.curPage = 0
		r.curID = res.id.Next()
	}

	r.state = StateMounted
	r.Log.Infow("nand ring mounted", "cur_blk", r.curBlk, "cur_id", r.curID.ID)
	return nil
}

// mkfs erases the first good block of the ring and returns it as the new
// cur_blk: the path taken when recovery finds no previously written
// block.
func (r *Ring) mkfs() (uint32, error) {
	// Searching from the ring's last block makes first_good(ring) the
	// first candidate eraseNext tries, mirroring firstGood.
	blk, err := eraseNext(r.drv, r.cfg.StartBlk, r.cfg.Len, r.cfg.StartBlk+r.cfg.Len-1)
	if err != nil {
		return 0, &RingError{Op: "mkfs", Err: err}
	}
	return blk, nil
}

// WritePage is the public append path. data must be exactly PageDataSize()
// bytes. It programs the data page, seals it with a header in the spare
// area, and advances (cur_blk, cur_page, cur_id), erasing the successor
// block when cur_page rolls over. Program failures on either the data or
// spare write are absorbed locally via rescue and retry: WritePage only
// returns an error when the ring is exhausted of good blocks
// (ErrRingExhausted, surfaced as a RingError).
func (r *Ring) WritePage(data []byte) error {
	ringpanic(r.state == StateMounted, "WritePage requires StateMounted")
	ringpanic(data != nil, errNilData.Error())
	ringpanic(uint32(len(data)) == r.drv.PageDataSize(), "WritePage: data is not exactly PageDataSize bytes")

	for {
		ecc, err := r.drv.WritePageData(r.curBlk, r.curPage, data)
		if err != nil {
			blk, rerr := r.rescueCurrent()
			if rerr != nil {
				return rerr
			}
			r.curBlk = blk
			continue
		}

		h := pageHeader{
			pageECC:       ecc,
			badMark:       BadMarkGood,
			id:            r.curID,
			utcCorrection: r.utcCorrection,
			timeBootUS:    r.clock.NowBootMicros(),
		}
		spare := make([]byte, r.drv.PageSpareSize())
		spareCodec{}.encode(spare, h)

		if err := r.drv.WritePageSpare(r.curBlk, r.curPage, spare); err != nil {
			// The data page we just wrote is now orphaned on a failing
			// block; rescue carries the earlier good pages [0, curPage)
			// forward, then the whole sequence — data and spare — is
			// retried on the new block, which rewrites this page's data.
			blk, rerr := r.rescueCurrent()
			if rerr != nil {
				return rerr
			}
			r.curBlk = blk
			continue
		}

		if err := r.advance(); err != nil {
			return err
		}
		return nil
	}
}

// rescueCurrent runs blockDataRescue for the page currently being
// written, marking the failing block bad first.
func (r *Ring) rescueCurrent() (uint32, error) {
	blk, err := blockDataRescue(r.drv, r.Log, r.cfg.StartBlk, r.cfg.Len, r.curBlk, r.curBlk, r.curPage, r.scratch)
	if err != nil {
		return 0, &RingError{Op: "WritePage", Err: err}
	}
	return blk, nil
}

// advance consumes the current identifier and moves to the next page,
// erasing the successor block when the current one is full. A failure to
// find or erase a successor block is a media condition like any other
// block exhaustion and is returned to the caller rather than treated as a
// contract violation.
func (r *Ring) advance() error {
	r.curID = r.curID.Next()
	r.curPage++
	if r.curPage == r.drv.PagesPerBlock() {
		r.curPage = 0
		blk, err := eraseNext(r.drv, r.cfg.StartBlk, r.cfg.Len, r.curBlk)
		if err != nil {
			return &RingError{Op: "WritePage", Err: err}
		}
		r.curBlk = blk
	}
	return nil
}

// TotalGood returns the number of good blocks currently in the ring's
// configured span.
func (r *Ring) TotalGood() uint32 {
	ringpanic(r.state == StateMounted, "TotalGood requires StateMounted")
	return totalGood(r.drv, r.cfg.StartBlk, r.cfg.Len)
}

// Umount transitions StateMounted -> StateIdle.
func (r *Ring) Umount() {
	ringpanic(r.state == StateMounted, "Umount requires StateMounted")
	r.state = StateIdle
}

// Stop transitions StateIdle -> StateStop and releases the ring's
// configuration.
func (r *Ring) Stop() {
	ringpanic(r.state == StateIdle, "Stop requires StateIdle")
	r.state = StateStop
	r.cfg = RingConfig{}
}

// State returns the ring's current lifecycle state.
func (r *Ring) State() State {
	return r.state
}

// CurID returns the identifier that will be stamped on the next page
// written.
func (r *Ring) CurID() PageID {
	return r.curID
}

// CurBlock returns the block currently being appended to.
func (r *Ring) CurBlock() uint32 {
	return r.curBlk
}

// CurPage returns the page offset within CurBlock that the next WritePage
// will target.
func (r *Ring) CurPage() uint32 {
	return r.curPage
}
