package sim_test

import (
	"strings"
	"testing"

	"github.com/db47h/btorsim/btor2parse"
	"github.com/db47h/btorsim/bv"
	"github.com/db47h/btorsim/model"
	"github.com/db47h/btorsim/sim"
)

// counterModel mirrors the canonical end-to-end scenario: an 8-bit counter
// state initialized to zero, incremented every cycle, with a bad property
// claiming it reaches 0xFF.
const counterModel = `
1 sort bitvec 8
2 sort bitvec 1
3 zero 1
4 state 1 s
5 init 1 4 3
6 one 1
7 add 1 4 6
8 next 1 4 7
9 constd 1 255
10 eq 2 4 9
11 bad 10
`

func parseOrFatal(t *testing.T, src string) *model.Model {
	t.Helper()
	m, err := btor2parse.Parse(strings.NewReader(src), "fixture.btor2")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestCounterReachesBadAtExpectedCycle(t *testing.T) {
	m := parseOrFatal(t, counterModel)
	d, err := sim.NewDriver(m)
	if err != nil {
		t.Fatal(err)
	}
	src := sim.NewRandomSource(0)
	if err := d.Run(300, src, nil); err != nil {
		t.Fatal(err)
	}
	if d.BadCycle[0] != 255 {
		t.Fatalf("bad reached at cycle %d, want 255", d.BadCycle[0])
	}
}

func TestCounterTraceCycleZero(t *testing.T) {
	m := parseOrFatal(t, counterModel)
	d, err := sim.NewDriver(m)
	if err != nil {
		t.Fatal(err)
	}
	tr := sim.NewTrace(false)
	src := sim.NewRandomSource(0)
	if err := d.Run(300, src, tr); err != nil {
		t.Fatal(err)
	}
	if len(tr.Frames) == 0 {
		t.Fatal("expected at least one frame")
	}
	f0 := tr.Frames[0]
	if len(f0.States) != 1 || f0.States[0].Value.ToBinaryString() != "00000000" {
		t.Fatalf("frame 0 state assignments = %+v, want s=00000000", f0.States)
	}
	if len(f0.Inputs) != 0 {
		t.Fatalf("frame 0 has %d input assignments, want 0 (model declares no inputs)", len(f0.Inputs))
	}
}

const constraintModel = `
1 sort bitvec 1
2 input 1 i
3 not 1 2
4 constraint 3
5 one 1
6 bad 5
`

// fixedSource always supplies the same value, letting the constraint
// scenario be exercised without depending on the RNG sequence.
type fixedSource struct{ v bv.BV }

func (f fixedSource) InputValue(int64, int, *model.Node, uint32) (bv.BV, error)  { return f.v, nil }
func (f fixedSource) StateValue(int64, int, *model.Node, uint32) (bv.BV, error)  { return f.v, nil }
func (fixedSource) CheckInit(int, *model.Node, bv.BV) error                      { return nil }
func (fixedSource) CheckNext(int64, int, *model.Node, bv.BV) error               { return nil }

func TestConstraintViolationStopsBadTracking(t *testing.T) {
	m := parseOrFatal(t, constraintModel)
	d, err := sim.NewDriver(m)
	if err != nil {
		t.Fatal(err)
	}
	src := fixedSource{v: bv.One(1)} // i=1 violates "constraint (not i)" immediately
	if err := d.Run(1, src, nil); err != nil {
		t.Fatal(err)
	}
	if d.ConstraintViolated != 0 {
		t.Fatalf("ConstraintViolated = %d, want 0", d.ConstraintViolated)
	}
	if d.BadCycle[0] != -1 {
		t.Fatalf("BadCycle[0] = %d, want -1 (bad check must not run once a constraint is violated)", d.BadCycle[0])
	}
}

const noBadsModel = `
1 sort bitvec 1
2 input 1 i
`

func TestRunStopsImmediatelyWithNoBads(t *testing.T) {
	m := parseOrFatal(t, noBadsModel)
	d, err := sim.NewDriver(m)
	if err != nil {
		t.Fatal(err)
	}
	tr := sim.NewTrace(false)
	src := sim.NewRandomSource(0)
	if err := d.Run(300, src, tr); err != nil {
		t.Fatal(err)
	}
	if len(d.BadCycle) != 0 {
		t.Fatalf("got %d bads, want 0", len(d.BadCycle))
	}
	if len(tr.Frames) != 1 {
		t.Fatalf("got %d frames, want 1 (a bad-free model must stop after cycle 0)", len(tr.Frames))
	}
}

func TestIllFormedStateRejected(t *testing.T) {
	const src = "1 sort bitvec 1\n2 zero 1\n3 state 1\n4 init 1 3 2\n"
	m := parseOrFatal(t, src)
	if _, err := sim.NewDriver(m); err == nil {
		t.Fatal("expected an ill-formed-model error for a state with init but no next")
	}
}
