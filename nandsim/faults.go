package nandsim

import (
	"errors"
	"sync"
)

// ErrInjectedFailure is returned by a Device operation whose fault
// injection schedule fired for that call.
var ErrInjectedFailure = errors.New("nandsim: injected failure")

type faultKind int

const (
	faultWriteData faultKind = iota
	faultWriteSpare
	faultWriteWhole
	faultErase
	faultDataMove
)

// faultRule describes a scheduled failure: the next remaining calls of
// the named faultKind against targetBlk (or against any block, if
// targetBlk is nil) return an error. remaining == -1 means "every
// matching call", matching the shape of a "fail forever" test fixture.
type faultRule struct {
	kind      faultKind
	targetBlk *uint32
	remaining int
}

// faultTable is a Device's fault-injection schedule.
type faultTable struct {
	mu    sync.Mutex
	rules []*faultRule
}

func newFaultTable() *faultTable {
	return &faultTable{}
}

// FailOnce schedules a single injected failure of kind on the next matching
// call against blk.
func (d *Device) FailOnce(kind string, blk uint32) {
	d.faults.add(parseKind(kind), &blk, 1)
}

// FailAlways schedules an injected failure of kind on every matching call
// against blk, until the rule is cleared (there is no clear operation;
// tests construct a fresh Device per scenario instead).
func (d *Device) FailAlways(kind string, blk uint32) {
	d.faults.add(parseKind(kind), &blk, -1)
}

// FailOnceAnyBlock schedules a single injected failure of kind on the
// next matching call regardless of which block it targets.
func (d *Device) FailOnceAnyBlock(kind string) {
	d.faults.add(parseKind(kind), nil, 1)
}

func parseKind(kind string) faultKind {
	switch kind {
	case "write_data":
		return faultWriteData
	case "write_spare":
		return faultWriteSpare
	case "write_whole":
		return faultWriteWhole
	case "erase":
		return faultErase
	case "data_move":
		return faultDataMove
	default:
		panic("nandsim: unknown fault kind " + kind)
	}
}

func (t *faultTable) add(kind faultKind, blk *uint32, remaining int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rules = append(t.rules, &faultRule{kind: kind, targetBlk: blk, remaining: remaining})
}

func (t *faultTable) check(kind faultKind, blk uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, r := range t.rules {
		if r.kind != kind {
			continue
		}
		if r.targetBlk != nil && *r.targetBlk != blk {
			continue
		}
		if r.remaining == 0 {
			continue
		}
		if r.remaining > 0 {
			r.remaining--
			if r.remaining == 0 {
				t.rules = append(t.rules[:i], t.rules[i+1:]...)
			}
		}
		return ErrInjectedFailure
	}
	return nil
}
