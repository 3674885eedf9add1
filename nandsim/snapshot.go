package nandsim

// Snapshot is a deep copy of a Device's raw page state, captured for
// simulating power loss: a test takes a Snapshot after N pages have been
// written, truncates it with TruncateTail to model a torn write, and builds a
// fresh Device from the result with Restore.
type Snapshot struct {
	blocks [][]page
	bad    []bool
	cfg    Config
}

// Snapshot captures the device's current raw state.
func (d *Device) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Snapshot{
		blocks: make([][]page, len(d.blocks)),
		bad:    append([]bool(nil), d.bad...),
		cfg: Config{
			Blocks:        uint32(len(d.blocks)),
			PagesPerBlock: d.pagesPerBlock,
			PageDataSize:  d.pageDataSize,
			PageSpareSize: d.pageSpareSize,
		},
	}
	for b, pages := range d.blocks {
		s.blocks[b] = make([]page, len(pages))
		for p, pg := range pages {
			s.blocks[b][p] = page{
				data:      append([]byte(nil), pg.data...),
				spare:     append([]byte(nil), pg.spare...),
				programed: pg.programed,
			}
		}
	}
	return s
}

// TruncateTail simulates a power loss partway through writing blk: every
// page in blk at index >= fromPage is reset to the erased state, and the
// page immediately before fromPage can optionally be left
// half-programmed (spare erased, data programmed) to model a torn
// data/spare pair — power loss between a page's data write and its
// spare seal is an expected failure mode.
func (s Snapshot) TruncateTail(blk uint32, fromPage uint32, tornSpare bool) Snapshot {
	out := s
	out.blocks = make([][]page, len(s.blocks))
	copy(out.blocks, s.blocks)

	pages := make([]page, len(s.blocks[blk]))
	copy(pages, s.blocks[blk])
	for p := fromPage; p < uint32(len(pages)); p++ {
		pages[p] = page{
			data:  make([]byte, len(pages[p].data)),
			spare: make([]byte, len(pages[p].spare)),
		}
		for i := range pages[p].data {
			pages[p].data[i] = 0xFF
		}
		for i := range pages[p].spare {
			pages[p].spare[i] = 0xFF
		}
	}
	if tornSpare && fromPage > 0 {
		// The last fully-data-programmed page never got its spare
		// sealed before power loss.
		last := fromPage - 1
		for i := range pages[last].spare {
			pages[last].spare[i] = 0xFF
		}
	}
	out.blocks[blk] = pages
	return out
}

// Restore builds a new Device from a captured Snapshot.
func Restore(s Snapshot) *Device {
	d := New(s.cfg, nil)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bad = append([]bool(nil), s.bad...)
	for b, pages := range s.blocks {
		d.blocks[b] = make([]page, len(pages))
		for p, pg := range pages {
			d.blocks[b][p] = page{
				data:      append([]byte(nil), pg.data...),
				spare:     append([]byte(nil), pg.spare...),
				programed: pg.programed,
			}
		}
	}
	return d
}
