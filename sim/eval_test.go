package sim_test

import (
	"testing"

	"github.com/benbjohnson/immutable"
	"github.com/db47h/btorsim/bv"
	"github.com/db47h/btorsim/model"
	"github.com/db47h/btorsim/sim"
	"github.com/google/go-cmp/cmp"
)

type idCmp struct{}

func (idCmp) Compare(a, b interface{}) int {
	x, y := a.(int64), b.(int64)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func oneSort(w uint32) *immutable.SortedMap {
	return immutable.NewSortedMap(idCmp{}).Set(int64(1), &model.Sort{ID: 1, Kind: model.SortBitvec, Width: w})
}

func node(id int64, tag model.Tag, sortID int64, args ...int64) *model.Node {
	n := &model.Node{ID: id, Tag: tag, SortID: sortID, NArgs: len(args)}
	for i, a := range args {
		n.Args[i] = a
	}
	return n
}

// bvTransform lets go-cmp compare values containing bv.BV, whose fields are
// unexported, by reducing each one to its canonical binary string first.
var bvTransform = cmp.Transformer("bvToString", func(v bv.BV) string { return v.ToBinaryString() })

func TestSimulateArithmeticChain(t *testing.T) {
	// 4-bit: node1 = 3 (constd), node2 = node1 + 1, node3 = not(node2)
	n1 := node(1, model.TagConstd, 1)
	n1.Constant = "3"
	n2 := node(2, model.TagInc, 1, 1)
	n3 := node(3, model.TagNot, 1, 2)
	m := &model.Model{Nodes: []*model.Node{nil, n1, n2, n3}, Sorts: oneSort(4)}
	e := sim.NewEvaluator(m)

	got, err := e.Simulate(3)
	if err != nil {
		t.Fatal(err)
	}
	want := bv.FromUint(3, 4).Inc().Not()
	if diff := cmp.Diff(want, got, bvTransform); diff != "" {
		t.Fatalf("Simulate(3) mismatch (-want +got):\n%s", diff)
	}
}

func TestSimulateNegatedReferenceComplements(t *testing.T) {
	n1 := node(1, model.TagOne, 1)
	m := &model.Model{Nodes: []*model.Node{nil, n1}, Sorts: oneSort(4)}
	e := sim.NewEvaluator(m)

	pos, err := e.Simulate(1)
	if err != nil {
		t.Fatal(err)
	}
	neg, err := e.Simulate(-1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(pos.Not(), neg, bvTransform); diff != "" {
		t.Fatalf("Simulate(-1) should be Not(Simulate(1)) (-want +got):\n%s", diff)
	}
}

func TestSimulateMemoizesWithinCycle(t *testing.T) {
	n1 := node(1, model.TagOnes, 1)
	m := &model.Model{Nodes: []*model.Node{nil, n1}, Sorts: oneSort(4)}
	e := sim.NewEvaluator(m)

	if _, err := e.Simulate(1); err != nil {
		t.Fatal(err)
	}
	if e.Get(1) == nil {
		t.Fatal("expected node 1 to be memoized after Simulate")
	}
	e.Reset()
	if e.Get(1) != nil {
		t.Fatal("expected Reset to clear the memo table")
	}
}

func TestSimulateUnsupportedOperatorReturnsEvalError(t *testing.T) {
	n1 := node(1, model.TagFair, 1) // fairness has no combinational value
	m := &model.Model{Nodes: []*model.Node{nil, n1}, Sorts: oneSort(1)}
	e := sim.NewEvaluator(m)

	_, err := e.Simulate(1)
	if _, ok := err.(*sim.EvalError); !ok {
		t.Fatalf("err = %#v, want *sim.EvalError", err)
	}
}

func TestSimulateIteSelectsBranch(t *testing.T) {
	cond := node(1, model.TagOne, 2)
	then := node(2, model.TagOnes, 3)
	els := node(3, model.TagZero, 3)
	ite := node(4, model.TagIte, 3, 1, 2, 3)
	ite.NArgs = 3
	sorts := immutable.NewSortedMap(idCmp{}).
		Set(int64(2), &model.Sort{ID: 2, Kind: model.SortBitvec, Width: 1}).
		Set(int64(3), &model.Sort{ID: 3, Kind: model.SortBitvec, Width: 4})
	m := &model.Model{Nodes: []*model.Node{nil, cond, then, els, ite}, Sorts: sorts}
	e := sim.NewEvaluator(m)

	got, err := e.Simulate(4)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsOnes() {
		t.Fatalf("ite(1, ones, zero) = %s, want all-ones", got.ToBinaryString())
	}
}
