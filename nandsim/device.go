// Package nandsim is an in-memory stand-in for the NAND driver collaborator
// nand.Driver declares: a deterministic, fault-injectable replacement for
// a real NAND device, used by every property and unit test in package
// nand.
package nandsim

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// page models one physical NAND page. An unprogrammed page reads back as
// all 0xFF in both its data and spare regions, matching erased-flash
// semantics: erased flash reads as 0xFF, whose CRC will not match.
type page struct {
	data      []byte
	spare     []byte
	programed bool
}

// Device is an in-memory nand.Driver implementation.
type Device struct {
	ID uuid.UUID

	log *zap.SugaredLogger

	mu            sync.Mutex
	blocks        [][]page
	bad           []bool
	pagesPerBlock uint32
	pageDataSize  uint32
	pageSpareSize uint32

	faults *faultTable
}

// Config describes the geometry of a simulated device.
type Config struct {
	Blocks        uint32
	PagesPerBlock uint32
	PageDataSize  uint32
	PageSpareSize uint32
}

// New constructs an all-erased Device of the given geometry.
func New(cfg Config, log *zap.SugaredLogger) *Device {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	d := &Device{
		ID:            uuid.New(),
		log:           log,
		blocks:        make([][]page, cfg.Blocks),
		bad:           make([]bool, cfg.Blocks),
		pagesPerBlock: cfg.PagesPerBlock,
		pageDataSize:  cfg.PageDataSize,
		pageSpareSize: cfg.PageSpareSize,
		faults:        newFaultTable(),
	}
	for b := range d.blocks {
		d.blocks[b] = make([]page, cfg.PagesPerBlock)
		for p := range d.blocks[b] {
			d.blocks[b][p] = d.erasedPage()
		}
	}
	log.Debugw("nandsim: device created", "device_id", d.ID, "blocks", cfg.Blocks)
	return d
}

func (d *Device) erasedPage() page {
	data := make([]byte, d.pageDataSize)
	spare := make([]byte, d.pageSpareSize)
	for i := range data {
		data[i] = 0xFF
	}
	for i := range spare {
		spare[i] = 0xFF
	}
	return page{data: data, spare: spare}
}

func (d *Device) Blocks() uint32        { return uint32(len(d.blocks)) }
func (d *Device) PagesPerBlock() uint32 { return d.pagesPerBlock }
func (d *Device) PageDataSize() uint32  { return d.pageDataSize }
func (d *Device) PageSpareSize() uint32 { return d.pageSpareSize }

func (d *Device) ReadPageSpare(blk, pg uint32, buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	copy(buf, d.blocks[blk][pg].spare)
	return nil
}

func (d *Device) WritePageData(blk, pg uint32, data []byte) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.faults.check(faultWriteData, blk); err != nil {
		d.log.Warnw("nandsim: injected data write failure", "device_id", d.ID, "block", blk, "page", pg)
		return 0, err
	}
	copy(d.blocks[blk][pg].data, data)
	d.blocks[blk][pg].programed = true
	return crcLike(data), nil
}

func (d *Device) WritePageSpare(blk, pg uint32, spare []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.faults.check(faultWriteSpare, blk); err != nil {
		d.log.Warnw("nandsim: injected spare write failure", "device_id", d.ID, "block", blk, "page", pg)
		return err
	}
	copy(d.blocks[blk][pg].spare, spare)
	return nil
}

func (d *Device) WritePageWhole(blk, pg uint32, whole []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.faults.check(faultWriteWhole, blk); err != nil {
		d.log.Warnw("nandsim: injected whole-page write failure", "device_id", d.ID, "block", blk, "page", pg)
		return err
	}
	n := int(d.pageDataSize)
	copy(d.blocks[blk][pg].data, whole[:n])
	copy(d.blocks[blk][pg].spare, whole[n:])
	d.blocks[blk][pg].programed = true
	return nil
}

func (d *Device) Erase(blk uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.faults.check(faultErase, blk); err != nil {
		d.log.Warnw("nandsim: injected erase failure", "device_id", d.ID, "block", blk)
		return err
	}
	for p := range d.blocks[blk] {
		d.blocks[blk][p] = d.erasedPage()
	}
	return nil
}

func (d *Device) DataMove(srcBlk, dstBlk, nPages uint32, scratch []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.faults.check(faultDataMove, dstBlk); err != nil {
		d.log.Warnw("nandsim: injected data_move failure", "device_id", d.ID, "src", srcBlk, "dst", dstBlk)
		return err
	}
	n := int(d.pageDataSize) + int(d.pageSpareSize)
	for p := uint32(0); p < nPages; p++ {
		copy(scratch[:n], d.blocks[srcBlk][p].data)
		copy(scratch[d.pageDataSize:n], d.blocks[srcBlk][p].spare)
		copy(d.blocks[dstBlk][p].data, scratch[:d.pageDataSize])
		copy(d.blocks[dstBlk][p].spare, scratch[d.pageDataSize:n])
		d.blocks[dstBlk][p].programed = d.blocks[srcBlk][p].programed
	}
	return nil
}

func (d *Device) IsBad(blk uint32) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bad[blk]
}

func (d *Device) MarkBad(blk uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.bad[blk] {
		d.log.Infow("nandsim: block marked bad", "device_id", d.ID, "block", blk)
	}
	d.bad[blk] = true
}

// PreMarkBad seeds blk as a factory bad block, before any ring logic runs.
func (d *Device) PreMarkBad(blk uint32) {
	d.MarkBad(blk)
}

// crcLike stands in for the ECC a real driver would compute over
// programmed data. Its exact algorithm is irrelevant to the ring engine,
// which treats ECC computation as out of scope; it only needs to be
// deterministic for a given input so round-trip tests can assert it is
// carried through the header unchanged.
func crcLike(data []byte) uint32 {
	var h uint32 = 2166136261
	for _, b := range data {
		h ^= uint32(b)
		h *= 16777619
	}
	return h
}
