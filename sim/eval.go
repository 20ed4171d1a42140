// Package sim implements the lazy, memoized DAG evaluator and the
// simulation driver that orchestrates the initialize/step/transition loop
// shared by random-mode generation and witness checking.
package sim

import (
	"github.com/db47h/btorsim/bv"
	"github.com/db47h/btorsim/model"
	"github.com/pkg/errors"
)

// EvalError reports that the evaluator encountered an operator it cannot
// simulate, or a reference to an undefined identifier.
type EvalError struct {
	Line int64
	Msg  string
}

func (e *EvalError) Error() string { return e.Msg }

// Evaluator evaluates nodes of a Model against a current-cycle memo
// table. It holds no notion of "cycle" itself; Driver owns the
// transition/promotion lifecycle described in spec §3 and §4.4 and calls
// Simulate once per reachable node per cycle.
type Evaluator struct {
	M       *model.Model
	Current []*bv.BV // id-indexed; nil = not yet computed this cycle
}

// NewEvaluator returns an Evaluator over m with an empty memo table.
func NewEvaluator(m *model.Model) *Evaluator {
	return &Evaluator{M: m, Current: make([]*bv.BV, m.NumLines())}
}

// Reset clears the memo table for every node, states and inputs included;
// the Driver calls it just before transition(). State values are kept
// separately by the Driver, which reinstalls them (and the inputs) with
// Set at the start of every cycle.
func (e *Evaluator) Reset() {
	for i := range e.Current {
		e.Current[i] = nil
	}
}

// Set installs v as the memoized current-cycle value of node id (id must
// be positive). Used by the Driver/witness checker to inject input and
// free-state values before evaluating combinational nodes.
func (e *Evaluator) Set(id int64, v bv.BV) {
	e.Current[id] = &v
}

// Get returns the memoized value of node id, or nil if unset.
func (e *Evaluator) Get(id int64) *bv.BV {
	if id <= 0 || id >= int64(len(e.Current)) {
		return nil
	}
	return e.Current[id]
}

// Simulate returns the value of node id in the current cycle, computing
// and memoizing through the Current table. A negative id means "compute
// the positive id and return its bitwise complement", per spec §4.4.
func (e *Evaluator) Simulate(id int64) (bv.BV, error) {
	neg := id < 0
	pid := id
	if neg {
		pid = -id
	}
	v, err := e.simulatePositive(pid)
	if err != nil {
		return bv.BV{}, err
	}
	if neg {
		return v.Not(), nil
	}
	return v, nil
}

func (e *Evaluator) simulatePositive(id int64) (bv.BV, error) {
	if cached := e.Current[id]; cached != nil {
		return *cached, nil
	}
	n := e.M.Node(id)
	if n == nil {
		return bv.BV{}, &EvalError{Msg: errors.Errorf("internal error: unexpected empty id %d", id).Error()}
	}

	var args [3]bv.BV
	for i := 0; i < n.NArgs; i++ {
		a, err := e.Simulate(n.Args[i])
		if err != nil {
			return bv.BV{}, err
		}
		args[i] = a
	}

	w := e.M.Width(n.ID)
	var res bv.BV
	switch n.Tag {
	case model.TagAdd:
		res = args[0].Add(args[1])
	case model.TagAnd:
		res = args[0].And(args[1])
	case model.TagConcat:
		res = args[0].Concat(args[1])
	case model.TagConst:
		v, err := bv.FromBinaryString(n.Constant)
		if err != nil {
			return bv.BV{}, &EvalError{Line: n.Line, Msg: err.Error()}
		}
		res = v
	case model.TagConstd:
		v, err := bv.FromDecimalString(n.Constant, w)
		if err != nil {
			return bv.BV{}, &EvalError{Line: n.Line, Msg: err.Error()}
		}
		res = v
	case model.TagConsth:
		v, err := bv.FromHexString(n.Constant, w)
		if err != nil {
			return bv.BV{}, &EvalError{Line: n.Line, Msg: err.Error()}
		}
		res = v
	case model.TagDec:
		res = args[0].Dec()
	case model.TagEq:
		res = args[0].Eq(args[1])
	case model.TagImplies:
		res = args[0].Implies(args[1])
	case model.TagInc:
		res = args[0].Inc()
	case model.TagIte:
		res = bv.Ite(args[0], args[1], args[2])
	case model.TagMul:
		res = args[0].Mul(args[1])
	case model.TagNand:
		res = args[0].Nand(args[1])
	case model.TagNeg:
		res = args[0].Neg()
	case model.TagNeq:
		res = args[0].Neq(args[1])
	case model.TagNor:
		res = args[0].Nor(args[1])
	case model.TagNot:
		res = args[0].Not()
	case model.TagOne:
		res = bv.One(w)
	case model.TagOnes:
		res = bv.Ones(w)
	case model.TagOr:
		res = args[0].Or(args[1])
	case model.TagRedand:
		res = args[0].RedAnd()
	case model.TagRedor:
		res = args[0].RedOr()
	case model.TagSlice:
		res = args[0].Slice(uint32(n.Imm[0]), uint32(n.Imm[1]))
	case model.TagSub:
		res = args[0].Sub(args[1])
	case model.TagUext:
		res = args[0].Uext(uint32(n.Imm[0]))
	case model.TagUdiv:
		res = args[0].Udiv(args[1])
	case model.TagSdiv:
		res = args[0].Sdiv(args[1])
	case model.TagSext:
		res = args[0].Sext(uint32(n.Imm[0]))
	case model.TagSll:
		res = args[0].Sll(args[1])
	case model.TagSrl:
		res = args[0].Srl(args[1])
	case model.TagSra:
		res = args[0].Sra(args[1])
	case model.TagSrem:
		res = args[0].Srem(args[1])
	case model.TagUgt:
		res = args[0].Ugt(args[1])
	case model.TagUgte:
		res = args[0].Ugte(args[1])
	case model.TagUlt:
		res = args[0].Ult(args[1])
	case model.TagUlte:
		res = args[0].Ulte(args[1])
	case model.TagUrem:
		res = args[0].Urem(args[1])
	case model.TagSgt:
		res = args[0].Sgt(args[1])
	case model.TagSgte:
		res = args[0].Sgte(args[1])
	case model.TagSlt:
		res = args[0].Slt(args[1])
	case model.TagSlte:
		res = args[0].Slte(args[1])
	case model.TagIff, model.TagXnor:
		res = args[0].Xnor(args[1])
	case model.TagXor:
		res = args[0].Xor(args[1])
	case model.TagZero:
		res = bv.Zero(w)
	default:
		return bv.BV{}, &EvalError{Line: n.Line, Msg: errors.Errorf("cannot simulate operator '%s' at line %d", n.Tag, n.Line).Error()}
	}
	e.Current[id] = &res
	return res, nil
}
