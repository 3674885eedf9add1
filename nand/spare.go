package nand

import (
	"encoding/binary"
	"hash/crc32"
)

// BadMarkGood is the bad_mark value stamped on every page this engine
// writes; any other value is reserved for driver-level bad-block marking
// conventions.
const BadMarkGood = 0xFFFF

// headerSize is the on-disk size of pageHeader: offsets 0..35 inclusive
// (spare_crc occupies bytes [32:36)).
const headerSize = 36

// pageHeader is the per-page header stored in the page's spare area.
// Field widths and offsets are bit-exact for wire compatibility; this
// struct is never serialized with encoding/gob or reflection-based
// codecs, only the explicit byte-offset encode/decode below, to keep
// that guarantee.
type pageHeader struct {
	pageECC       uint32
	badMark       uint16
	id            PageID
	utcCorrection uint32
	timeBootUS    uint64
	spareCRC      uint32
}

// spareCodec serializes/deserializes pageHeader into a page's spare
// buffer and computes/validates its CRC. The CRC is CRC-32 (seed
// 0xFFFFFFFF) over the header bytes excluding the trailing spare_crc
// field itself.
type spareCodec struct{}

// encode serializes h into buf, which must be at least headerSize bytes
// (the remainder of the spare area, up to pageSpareSize, is driver
// managed and left untouched here). h.spareCRC is recomputed from h's
// other fields rather than trusted from the caller.
func (spareCodec) encode(buf []byte, h pageHeader) {
	ringpanic(len(buf) >= headerSize, "spare buffer too small for header")

	binary.LittleEndian.PutUint32(buf[0:4], h.pageECC)
	binary.LittleEndian.PutUint16(buf[4:6], h.badMark)
	// buf[6:8] pad, left zero

	var rawID uint64
	if h.id.Valid {
		rawID = h.id.ID
	}
	binary.LittleEndian.PutUint64(buf[8:16], rawID)
	binary.LittleEndian.PutUint32(buf[16:20], h.utcCorrection)
	// buf[20:24] pad, left zero
	binary.LittleEndian.PutUint64(buf[24:32], h.timeBootUS)

	crc := calcSpareCRC(buf)
	binary.LittleEndian.PutUint32(buf[32:36], crc)
}

// decode parses a header out of buf and reports whether its CRC is valid.
// An invalid CRC decodes to PageIDWasted regardless of what raw bytes
// happen to be present.
func (spareCodec) decode(buf []byte) (pageHeader, bool) {
	ringpanic(len(buf) >= headerSize, "spare buffer too small for header")

	h := pageHeader{
		pageECC:       binary.LittleEndian.Uint32(buf[0:4]),
		badMark:       binary.LittleEndian.Uint16(buf[4:6]),
		utcCorrection: binary.LittleEndian.Uint32(buf[16:20]),
		timeBootUS:    binary.LittleEndian.Uint64(buf[24:32]),
		spareCRC:      binary.LittleEndian.Uint32(buf[32:36]),
	}
	rawID := binary.LittleEndian.Uint64(buf[8:16])

	if calcSpareCRC(buf) != h.spareCRC {
		return pageHeader{}, false
	}

	if rawID == 0 {
		h.id = PageIDWasted
	} else {
		h.id = PageID{Valid: true, ID: rawID}
	}
	return h, true
}

// readPageID reads just enough of blk/page's spare area to resolve its
// PageID, returning PageIDWasted on any CRC failure.
func readPageID(drv Driver, blk, page uint32) (PageID, error) {
	buf := make([]byte, headerSize)
	if err := drv.ReadPageSpare(blk, page, buf); err != nil {
		return PageIDWasted, err
	}
	h, ok := spareCodec{}.decode(buf)
	if !ok {
		return PageIDWasted, nil
	}
	return h.id, nil
}

// calcSpareCRC computes the CRC-32 (IEEE polynomial, seed 0xFFFFFFFF) of
// buf[:headerSize-4], i.e. the header excluding its own trailing spare_crc
// field.
func calcSpareCRC(buf []byte) uint32 {
	return crc32.ChecksumIEEE(buf[:headerSize-4])
}
