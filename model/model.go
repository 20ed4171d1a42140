// Package model holds the parsed representation of a BTOR2 sequential
// model: its sort table, its dense id-indexed node table, and the derived
// role lists (inputs, states, bads, constraints, inits, nexts) the
// evaluator and driver need. A *Model is immutable once returned by the
// parser: nothing in this package mutates a Node or a Sort after Parse
// returns.
package model

import (
	"github.com/benbjohnson/immutable"
	"github.com/pkg/errors"
)

// int64Comparer implements immutable.Comparer for int64 sort identifiers.
type int64Comparer struct{}

func (int64Comparer) Compare(a, b interface{}) int {
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

// Model is the immutable parsed form of a BTOR2 source file.
type Model struct {
	// Nodes is dense and id-indexed: Nodes[id] is nil for identifiers
	// that were never defined, and for id 0 (which BTOR2 reserves).
	Nodes []*Node
	// Sorts is an immutable snapshot of every declared sort, keyed by
	// sort id. Stored as an immutable.SortedMap so that the "Model is
	// immutable during simulation" invariant (spec §3) is a property of
	// the type, not just a convention callers must uphold.
	Sorts *immutable.SortedMap

	Inputs      []*Node
	States      []*Node
	Bads        []*Node
	Constraints []*Node
	Justices    []*Node

	// Inits and Nexts are id-indexed, at most one entry per state id.
	Inits []*Node
	Nexts []*Node
}

// NumLines returns one past the largest node identifier seen while
// parsing, i.e. the length callers should use to size an id-indexed state
// table.
func (m *Model) NumLines() int64 { return int64(len(m.Nodes)) }

// Node returns the node with the given (always positive) identifier, or
// nil if none was defined.
func (m *Model) Node(id int64) *Node {
	if id <= 0 || id >= int64(len(m.Nodes)) {
		return nil
	}
	return m.Nodes[id]
}

// Sort returns the sort with the given identifier, or nil if undeclared.
func (m *Model) Sort(id int64) *Sort {
	v, ok := m.Sorts.Get(id)
	if !ok {
		return nil
	}
	return v.(*Sort)
}

// Width returns the bit width of node id's result sort. Panics if id has
// no node or the node has no sort (a parser invariant violation).
func (m *Model) Width(id int64) uint32 {
	if id < 0 {
		id = -id
	}
	n := m.Node(id)
	if n == nil {
		panic("model: reference to undefined node")
	}
	s := m.Sort(n.SortID)
	if s == nil {
		panic("model: node references undeclared sort")
	}
	return s.Width
}

// Validate re-checks the structural invariants spec §3 lists: every
// argument refers to a defined node with a sort, argument widths agree
// with each operator's typing rule, and every state has at
// most one init and at most one next. It is run once by the parser right
// after building the Model, but is exported so callers constructing a
// Model by hand (e.g. in tests) can re-run it.
func (m *Model) Validate() error {
	for _, s := range m.States {
		if m.Inits[s.ID] != nil && m.Inits[s.ID].Args[0] != s.ID {
			return errors.Errorf("line %d: init does not target state %d", m.Inits[s.ID].Line, s.ID)
		}
	}
	for id, n := range m.Nodes {
		if n == nil || int64(id) != n.ID {
			continue
		}
		for i := 0; i < n.NArgs; i++ {
			a := n.Args[i]
			if a < 0 {
				a = -a
			}
			if arg := m.Node(a); arg == nil || m.Sort(arg.SortID) == nil {
				return errors.Errorf("line %d: argument %d does not refer to a defined node with a sort", n.Line, n.Args[i])
			}
		}
		if err := m.checkTyping(n); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) checkTyping(n *Node) error {
	switch n.Tag {
	case TagAdd, TagAnd, TagSub, TagMul, TagUdiv, TagSdiv, TagUrem, TagSrem,
		TagOr, TagXor, TagNand, TagNor, TagXnor, TagImplies, TagIff,
		TagSll, TagSrl, TagSra:
		wa, wb := m.Width(n.Args[0]), m.Width(n.Args[1])
		if wa != wb {
			return errors.Errorf("line %d: %s requires equal-width operands, got %d and %d", n.Line, n.Tag, wa, wb)
		}
		if m.Width(n.ID) != wa {
			return errors.Errorf("line %d: %s result width %d does not match operand width %d", n.Line, n.Tag, m.Width(n.ID), wa)
		}
	case TagEq, TagNeq, TagUlt, TagUlte, TagUgt, TagUgte,
		TagSlt, TagSlte, TagSgt, TagSgte:
		if m.Width(n.Args[0]) != m.Width(n.Args[1]) {
			return errors.Errorf("line %d: %s requires equal-width operands", n.Line, n.Tag)
		}
		if m.Width(n.ID) != 1 {
			return errors.Errorf("line %d: %s must have width-1 result", n.Line, n.Tag)
		}
	case TagNot, TagNeg, TagInc, TagDec:
		if m.Width(n.ID) != m.Width(n.Args[0]) {
			return errors.Errorf("line %d: %s result width must match operand width", n.Line, n.Tag)
		}
	case TagRedand, TagRedor:
		if m.Width(n.ID) != 1 {
			return errors.Errorf("line %d: %s must have width-1 result", n.Line, n.Tag)
		}
	case TagConcat:
		wa, wb := m.Width(n.Args[0]), m.Width(n.Args[1])
		if m.Width(n.ID) != wa+wb {
			return errors.Errorf("line %d: concat result width %d does not equal sum of operand widths %d+%d", n.Line, m.Width(n.ID), wa, wb)
		}
	case TagSlice:
		hi, lo := n.Imm[0], n.Imm[1]
		wArg := int64(m.Width(n.Args[0]))
		if !(0 <= lo && lo <= hi && hi < wArg) {
			return errors.Errorf("line %d: slice bounds [%d:%d] invalid for %d-bit operand", n.Line, hi, lo, wArg)
		}
		if int64(m.Width(n.ID)) != hi-lo+1 {
			return errors.Errorf("line %d: slice result width does not match [%d:%d]", n.Line, hi, lo)
		}
	case TagUext, TagSext:
		wArg := m.Width(n.Args[0])
		if m.Width(n.ID) != wArg+uint32(n.Imm[0]) {
			return errors.Errorf("line %d: %s result width does not equal operand width + extension", n.Line, n.Tag)
		}
	case TagIte:
		if m.Width(n.Args[0]) != 1 {
			return errors.Errorf("line %d: ite condition must have width 1", n.Line)
		}
		wt, we := m.Width(n.Args[1]), m.Width(n.Args[2])
		if wt != we {
			return errors.Errorf("line %d: ite branches must share a width, got %d and %d", n.Line, wt, we)
		}
	case TagInit:
		sw := m.Width(n.Args[0])
		vw := m.Width(n.Args[1])
		if sw != vw {
			return errors.Errorf("line %d: init value width %d does not match state width %d", n.Line, vw, sw)
		}
	case TagNext:
		sw := m.Width(n.Args[0])
		vw := m.Width(n.Args[1])
		if sw != vw {
			return errors.Errorf("line %d: next value width %d does not match state width %d", n.Line, vw, sw)
		}
	}
	return nil
}
