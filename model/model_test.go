package model_test

import (
	"testing"

	"github.com/benbjohnson/immutable"
	"github.com/db47h/btorsim/model"
)

type cmp struct{}

func (cmp) Compare(a, b interface{}) int {
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

func sorts(entries ...*model.Sort) *immutable.SortedMap {
	m := immutable.NewSortedMap(cmp{})
	for _, s := range entries {
		m = m.Set(s.ID, s)
	}
	return m
}

func newNode(id int64, tag model.Tag, sortID int64, args ...int64) *model.Node {
	n := &model.Node{ID: id, Tag: tag, SortID: sortID, NArgs: len(args)}
	for i, a := range args {
		n.Args[i] = a
	}
	return n
}

func TestWidthHandlesNegatedID(t *testing.T) {
	m := &model.Model{
		Nodes: []*model.Node{nil, newNode(1, model.TagInput, 1)},
		Sorts: sorts(&model.Sort{ID: 1, Kind: model.SortBitvec, Width: 8}),
	}
	if got := m.Width(1); got != 8 {
		t.Fatalf("Width(1) = %d, want 8", got)
	}
	if got := m.Width(-1); got != 8 {
		t.Fatalf("Width(-1) = %d, want 8", got)
	}
}

func TestValidateRejectsWidthMismatch(t *testing.T) {
	n1 := newNode(1, model.TagInput, 1)
	n2 := newNode(2, model.TagInput, 2)
	n3 := newNode(3, model.TagAdd, 1, 1, 2)
	m := &model.Model{
		Nodes: []*model.Node{nil, n1, n2, n3},
		Sorts: sorts(
			&model.Sort{ID: 1, Kind: model.SortBitvec, Width: 8},
			&model.Sort{ID: 2, Kind: model.SortBitvec, Width: 4},
		),
		Inits: make([]*model.Node, 4),
		Nexts: make([]*model.Node, 4),
	}
	if err := m.Validate(); err == nil {
		t.Fatal("expected a width-mismatch error")
	}
}

func TestValidateAcceptsWellTypedModel(t *testing.T) {
	n1 := newNode(1, model.TagInput, 1)
	n2 := newNode(2, model.TagInput, 1)
	n3 := newNode(3, model.TagAdd, 1, 1, 2)
	m := &model.Model{
		Nodes: []*model.Node{nil, n1, n2, n3},
		Sorts: sorts(&model.Sort{ID: 1, Kind: model.SortBitvec, Width: 8}),
		Inits: make([]*model.Node, 4),
		Nexts: make([]*model.Node, 4),
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsSliceBounds(t *testing.T) {
	n1 := newNode(1, model.TagInput, 1)
	n2 := newNode(2, model.TagSlice, 1, 1)
	n2.Imm[0], n2.Imm[1] = 10, 0 // hi out of range for an 8-bit operand
	m := &model.Model{
		Nodes: []*model.Node{nil, n1, n2},
		Sorts: sorts(&model.Sort{ID: 1, Kind: model.SortBitvec, Width: 8}),
		Inits: make([]*model.Node, 3),
		Nexts: make([]*model.Node, 3),
	}
	if err := m.Validate(); err == nil {
		t.Fatal("expected a slice-bounds error")
	}
}
