package nand

import (
	"testing"

	"github.com/nandring/go-nandring/nandsim"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testBlocks        = MinRingSize
	testPagesPerBlock = 4
	testPageDataSize  = 16
	testPageSpareSize = 64
)

func newTestDevice() *nandsim.Device {
	return nandsim.New(nandsim.Config{
		Blocks:        testBlocks,
		PagesPerBlock: testPagesPerBlock,
		PageDataSize:  testPageDataSize,
		PageSpareSize: testPageSpareSize,
	}, zap.NewNop().Sugar())
}

func newTestRing(dev *nandsim.Device) *Ring {
	r := NewRing(dev, nandsim.NewFakeClock(), zap.NewNop().Sugar())
	r.Start(RingConfig{StartBlk: 0, Len: testBlocks})
	return r
}

func testPage(b byte) []byte {
	buf := make([]byte, testPageDataSize)
	for i := range buf {
		buf[i] = b
	}
	return buf
}

func TestMountColdDeviceRunsMkfs(t *testing.T) {
	dev := newTestDevice()
	r := newTestRing(dev)

	require.NoError(t, r.Mount())
	require.Equal(t, StateMounted, r.State())
	require.Equal(t, PageIDFirst, r.CurID())
	require.Equal(t, uint32(0), r.CurPage())
	// mkfs erases first_good(ring) and makes it cur_blk; with no bad
	// blocks that is StartBlk itself.
	require.Equal(t, uint32(0), r.CurBlock())
}

func TestAppendThenRemountRecoversNextID(t *testing.T) {
	dev := newTestDevice()
	r := newTestRing(dev)
	require.NoError(t, r.Mount())

	for i := 0; i < 3; i++ {
		require.NoError(t, r.WritePage(testPage(byte(i))))
	}
	wantNext := r.CurID()
	r.Umount()
	r.Stop()

	r2 := newTestRing(dev)
	require.NoError(t, r2.Mount())

	// Mount always closes the previous session onto a fresh block, so
	// only the recovered identifier and the reset page offset are
	// stable across a remount.
	require.Equal(t, wantNext, r2.CurID())
	require.Equal(t, uint32(0), r2.CurPage())
}

func TestBlockRolloverAdvancesToFreshBlock(t *testing.T) {
	dev := newTestDevice()
	r := newTestRing(dev)
	require.NoError(t, r.Mount())
	startBlk := r.CurBlock()

	for i := 0; i < testPagesPerBlock; i++ {
		require.NoError(t, r.WritePage(testPage(byte(i))))
	}

	require.NotEqual(t, startBlk, r.CurBlock(), "writing a full block must roll over to a new block")
	require.Equal(t, uint32(0), r.CurPage())
}

func TestMonotonicIDAcrossRollover(t *testing.T) {
	dev := newTestDevice()
	r := newTestRing(dev)
	require.NoError(t, r.Mount())

	var last PageID
	for i := 0; i < testPagesPerBlock*3; i++ {
		before := r.CurID()
		require.NoError(t, r.WritePage(testPage(byte(i))))
		require.True(t, last.Less(before) || i == 0)
		last = before
	}
}

func TestWriteDataFailureTriggersRescueAndMarksBlockBad(t *testing.T) {
	dev := newTestDevice()
	r := newTestRing(dev)
	require.NoError(t, r.Mount())

	failing := r.CurBlock()
	dev.FailOnce("write_data", failing)

	require.NoError(t, r.WritePage(testPage(1)))
	require.True(t, dev.IsBad(failing))
	require.NotEqual(t, failing, r.CurBlock())
}

func TestWriteSpareFailureTriggersRescue(t *testing.T) {
	dev := newTestDevice()
	r := newTestRing(dev)
	require.NoError(t, r.Mount())

	failing := r.CurBlock()
	dev.FailOnce("write_spare", failing)

	require.NoError(t, r.WritePage(testPage(1)))
	require.True(t, dev.IsBad(failing))
}

func TestPowerLossMidSessionRecoversLastCompletePage(t *testing.T) {
	dev := newTestDevice()
	r := newTestRing(dev)
	require.NoError(t, r.Mount())

	for i := 0; i < 2; i++ {
		require.NoError(t, r.WritePage(testPage(byte(i))))
	}
	lastGoodID := r.CurID() // identifier that would have gone on the 3rd page
	blk := r.CurBlock()
	page := r.CurPage()

	// Simulate power loss: the 3rd page's data was programmed but its
	// spare header was never sealed.
	_, err := dev.WritePageData(blk, page, testPage(2))
	require.NoError(t, err)

	r2 := NewRing(dev, nandsim.NewFakeClock(), zap.NewNop().Sugar())
	r2.Start(RingConfig{StartBlk: 0, Len: testBlocks})
	require.NoError(t, r2.Mount())

	require.Equal(t, lastGoodID, r2.CurID())
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	dev := newTestDevice()
	r := newTestRing(dev)
	require.NoError(t, r.Mount())
	for i := 0; i < 2; i++ {
		require.NoError(t, r.WritePage(testPage(byte(i))))
	}
	wantID := r.CurID()

	snap := dev.Snapshot()
	dev2 := nandsim.Restore(snap)

	r2 := NewRing(dev2, nandsim.NewFakeClock(), zap.NewNop().Sugar())
	r2.Start(RingConfig{StartBlk: 0, Len: testBlocks})
	require.NoError(t, r2.Mount())
	require.Equal(t, wantID, r2.CurID())
}

func TestTruncateTailErasesPowerLossPages(t *testing.T) {
	dev := newTestDevice()
	r := newTestRing(dev)
	require.NoError(t, r.Mount())
	blk := r.CurBlock()
	for i := 0; i < testPagesPerBlock; i++ {
		require.NoError(t, r.WritePage(testPage(byte(i))))
	}

	snap := dev.Snapshot()
	// Truncating to page 2 leaves only page 0 (id 1) valid in blk; the
	// recovery scan must fall back to it rather than the torn pages.
	torn := snap.TruncateTail(blk, 2, true)
	dev2 := nandsim.Restore(torn)

	r2 := NewRing(dev2, nandsim.NewFakeClock(), zap.NewNop().Sugar())
	r2.Start(RingConfig{StartBlk: 0, Len: testBlocks})
	require.NoError(t, r2.Mount())
	require.Equal(t, uint32(0), r2.CurPage())
	require.Equal(t, PageID{Valid: true, ID: 2}, r2.CurID())
}

func TestMountFailsWithTooFewGoodBlocks(t *testing.T) {
	dev := newTestDevice()
	for b := uint32(0); b < testBlocks-MinGoodBlocks+1; b++ {
		dev.PreMarkBad(b)
	}
	r := NewRing(dev, nandsim.NewFakeClock(), zap.NewNop().Sugar())
	r.Start(RingConfig{StartBlk: 0, Len: testBlocks})

	err := r.Mount()
	require.ErrorIs(t, err, ErrNotEnoughGoodBlocks)
}

func TestWritePagePanicsOnWrongSizeData(t *testing.T) {
	dev := newTestDevice()
	r := newTestRing(dev)
	require.NoError(t, r.Mount())

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic writing wrong-sized data")
		}
	}()
	_ = r.WritePage(make([]byte, testPageDataSize+1))
}

func TestWritePagePanicsWhenNotMounted(t *testing.T) {
	dev := newTestDevice()
	r := newTestRing(dev)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling WritePage before Mount")
		}
	}()
	_ = r.WritePage(testPage(0))
}

func TestSetUTCCorrectionAppliesToSubsequentWrites(t *testing.T) {
	dev := newTestDevice()
	r := newTestRing(dev)
	require.NoError(t, r.Mount())

	blk, page := r.CurBlock(), r.CurPage()
	r.SetUTCCorrection(99)
	require.NoError(t, r.WritePage(testPage(1)))

	// Read back the header sealed on the page just written.
	spare := make([]byte, testPageSpareSize)
	require.NoError(t, dev.ReadPageSpare(blk, page, spare))
	h, ok := spareCodec{}.decode(spare)
	require.True(t, ok)
	require.Equal(t, uint32(99), h.utcCorrection)
}

func TestSearchSessionsIsUnspecified(t *testing.T) {
	dev := newTestDevice()
	r := newTestRing(dev)
	require.NoError(t, r.Mount())

	_, err := r.SearchSessions(10)
	require.ErrorIs(t, err, ErrSearchSessionsUnspecified)
}
